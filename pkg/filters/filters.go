package filters

import (
	"github.com/Ramsey-B/fern/pkg/filters/encode"
	"github.com/Ramsey-B/fern/pkg/filters/impute"
	"github.com/Ramsey-B/fern/pkg/filters/pca"
	"github.com/Ramsey-B/fern/pkg/filters/registry"
	"github.com/Ramsey-B/fern/pkg/filters/scale"
)

const (
	// Filter Keys
	ImputeFilter = "impute"
	EncodeFilter = "encode"
	ScaleFilter  = "scale"
	PCAFilter    = "pca"
)

type FilterDefinition struct {
	Key           string                 `json:"key" validate:"required"`
	Name          string                 `json:"name" validate:"required"`
	Description   string                 `json:"description" validate:"required"`
	DefaultParams any                    `json:"default_params"`
	Factory       registry.FilterFactory `json:"-"`
}

var FilterDefinitions = map[string]FilterDefinition{
	ImputeFilter: {
		Key:           ImputeFilter,
		Name:          impute.StageName,
		Description:   "Fills missing cells: numeric columns by median or mean, categorical columns by the most frequent value",
		DefaultParams: impute.ImputeParams{StrategyNum: impute.StrategyMedian, StrategyCat: impute.StrategyMostFrequent},
		Factory:       impute.NewImputeFilter,
	},
	EncodeFilter: {
		Key:           EncodeFilter,
		Name:          encode.StageName,
		Description:   "Replaces each categorical column with one 0/1 indicator column per distinct value, optionally dropping the first category",
		DefaultParams: encode.EncodeParams{},
		Factory:       encode.NewEncodeFilter,
	},
	ScaleFilter: {
		Key:           ScaleFilter,
		Name:          scale.StageName,
		Description:   "Rescales numeric columns to zero mean and unit variance, or to the [0, 1] range",
		DefaultParams: scale.ScaleParams{Method: scale.MethodStandard},
		Factory:       scale.NewScaleFilter,
	},
	PCAFilter: {
		Key:           PCAFilter,
		Name:          pca.StageName,
		Description:   "Projects numeric features onto their top principal components, bounded by min(sample count, feature count)",
		DefaultParams: pca.PCAParams{NComponents: 5},
		Factory:       pca.NewPCAFilter,
	},
}

// RegisterAll installs every cataloged filter into the registry. Call once at
// startup (or from a test init) before building pipelines.
func RegisterAll() {
	for _, definition := range FilterDefinitions {
		registry.Filters[definition.Key] = definition.Factory
	}
}
