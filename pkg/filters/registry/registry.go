package registry

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// FilterFactory builds a runnable filter from its catalog key and raw
// parameters. Parameter validation is the factory's concern; a malformed
// parameter record fails the build before any run starts.
type FilterFactory func(key string, args any) (models.Filter, error)

var Filters = map[string]FilterFactory{}

func GetFilter(key string, args any) (models.Filter, error) {
	factory, ok := Filters[key]
	if !ok {
		return nil, errors.NewPipelineErrorf("filter not found: '%s'", key).AddFilter(key)
	}
	return factory(key, args)
}
