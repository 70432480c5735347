package registry

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFilter struct{ key string }

func (f *stubFilter) Name() string { return f.key }
func (f *stubFilter) Params() any  { return nil }
func (f *stubFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	return packet, nil
}

func TestGetFilter(t *testing.T) {
	t.Run("should return an error for an unknown key", func(t *testing.T) {
		_, err := GetFilter("does-not-exist", nil)
		require.Error(t, err)
		assert.Equal(t, "filter 'does-not-exist': filter not found: 'does-not-exist'", err.Error())
	})

	t.Run("should build through the registered factory", func(t *testing.T) {
		Filters["stub"] = func(key string, args any) (models.Filter, error) {
			return &stubFilter{key: key}, nil
		}
		defer delete(Filters, "stub")

		filter, err := GetFilter("stub", nil)
		require.NoError(t, err)
		assert.Equal(t, "stub", filter.Name())
	})
}
