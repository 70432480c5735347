package validate

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/filters"
	"github.com/Ramsey-B/fern/pkg/filters/encode"
	"github.com/Ramsey-B/fern/pkg/filters/pca"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// OneHotWidthFunc estimates how many indicator columns one-hot encoding a
// single categorical column produces. The default mirrors the encode filter
// (missing counts as a category, drop-first reduces by one when more than one
// category exists); an encoder variant with different runtime behavior supplies
// its own estimator through DataWithEstimator.
type OneHotWidthFunc func(f *frame.Frame, col string, dropFirst bool) int

// DefaultOneHotWidth matches the behavior of the encode filter.
func DefaultOneHotWidth(f *frame.Frame, col string, dropFirst bool) int {
	k := f.DistinctCount(col, true)
	if k <= 0 {
		return 0
	}
	if dropFirst && k > 1 {
		k--
	}
	return k
}

// Data validates the step sequence against the loaded dataset, including the
// pre-run feature-count bound for PCA.
func Data(f *frame.Frame, stepKeys []string, params map[string]any) []models.ValidationMessage {
	return DataWithEstimator(f, stepKeys, params, DefaultOneHotWidth)
}

// DataWithEstimator is Data with a caller-supplied one-hot width estimator.
func DataWithEstimator(f *frame.Frame, stepKeys []string, params map[string]any, width OneHotWidthFunc) []models.ValidationMessage {
	msgs := []models.ValidationMessage{}

	if f == nil || f.Rows() == 0 {
		return append(msgs, models.ValidationMessage{
			Level: models.ValidationError,
			Text:  "Dataset is empty or not loaded.",
		})
	}

	catCols := f.CategoricalColumns()
	missingTotal := f.MissingCount()

	idx := map[string]int{}
	for i, key := range stepKeys {
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	has := func(key string) bool {
		_, ok := idx[key]
		return ok
	}
	after := func(a, b string) bool {
		return has(a) && has(b) && idx[a] > idx[b]
	}

	if missingTotal > 0 && !has(filters.ImputeFilter) {
		msgs = append(msgs, models.ValidationMessage{
			Level: models.ValidationWarning,
			Text:  fmt.Sprintf("Dataset contains %d missing values, but 'Impute' is not enabled.", missingTotal),
		})
	}

	if has(filters.EncodeFilter) && len(catCols) == 0 {
		msgs = append(msgs, models.ValidationMessage{
			Level: models.ValidationWarning,
			Text:  "Encode is enabled, but no categorical columns were detected.",
		})
	}

	if has(filters.PCAFilter) {
		if len(catCols) > 0 {
			if !has(filters.EncodeFilter) {
				msgs = append(msgs, models.ValidationMessage{
					Level: models.ValidationError,
					Text:  "PCA is enabled but dataset contains categorical columns and 'Encode' is disabled. PCA needs numeric features.",
				})
			} else if !after(filters.PCAFilter, filters.EncodeFilter) {
				msgs = append(msgs, models.ValidationMessage{
					Level: models.ValidationError,
					Text:  "PCA must run AFTER Encoding when categorical columns exist.",
				})
			}
		}

		nSamples := f.Rows()
		estFeatures := estimateFeaturesAtPCA(f, idx, params, width)
		requested := pcaComponents(params)

		maxAllowed := estFeatures
		if nSamples < maxAllowed {
			maxAllowed = nSamples
		}

		if maxAllowed <= 0 {
			msgs = append(msgs, models.ValidationMessage{
				Level: models.ValidationError,
				Text:  "PCA cannot run because there will be no valid features or samples at PCA stage.",
			})
		} else if requested > maxAllowed {
			msgs = append(msgs, models.ValidationMessage{
				Level: models.ValidationError,
				Text: fmt.Sprintf(
					"PCA n_components (%d) exceeds the maximum allowed value min(n_samples=%d, n_features=%d) = %d. Reduce n_components or provide more data.",
					requested, nSamples, estFeatures, maxAllowed,
				),
			})
		}
	}

	return msgs
}

// estimateFeaturesAtPCA projects the numeric feature count that will exist at
// the moment the PCA step executes. Encoding only contributes when it is
// configured and positioned before PCA; otherwise its indicator columns are
// not yet numeric when PCA runs.
func estimateFeaturesAtPCA(f *frame.Frame, idx map[string]int, params map[string]any, width OneHotWidthFunc) int {
	numCount := len(f.NumericColumns())

	encodeIdx, hasEncode := idx[filters.EncodeFilter]
	pcaIdx, hasPCA := idx[filters.PCAFilter]
	if !hasEncode || !hasPCA || encodeIdx > pcaIdx {
		return numCount
	}

	dropFirst := encodeDropFirst(params)
	onehot := 0
	for _, col := range f.CategoricalColumns() {
		onehot += width(f, col, dropFirst)
	}
	return numCount + onehot
}

func encodeDropFirst(params map[string]any) bool {
	raw, ok := params[filters.EncodeFilter]
	if !ok {
		return false
	}
	parsed, err := utils.ParseArguments[encode.EncodeParams](raw)
	if err != nil {
		return false
	}
	return parsed.Drop == encode.DropFirst
}

func pcaComponents(params map[string]any) int {
	raw, ok := params[filters.PCAFilter]
	if ok {
		parsed, err := utils.ParseArguments[pca.PCAParams](raw)
		if err == nil && parsed.NComponents > 0 {
			return parsed.NComponents
		}
	}
	return 5
}
