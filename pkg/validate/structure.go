// Package validate implements the two-tier pipeline validation: structural
// checks over the step ordering alone, and data-aware checks that inspect the
// loaded dataset. Both tiers are pure functions of their inputs; errors gate
// run permission, warnings never block.
package validate

import (
	"github.com/Ramsey-B/fern/pkg/filters"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Structure validates the step ordering alone (pattern-level, never data).
// Every rule is evaluated independently; there is no short-circuit.
func Structure(stepKeys []string) []models.ValidationMessage {
	msgs := []models.ValidationMessage{}

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
	before := func(a, b string) bool {
		return has(a) && has(b) && idx[a] < idx[b]
	}

	// PCA should happen after scaling, and after encoding when both are present.
	if has(filters.PCAFilter) {
		if has(filters.ScaleFilter) && !after(filters.PCAFilter, filters.ScaleFilter) {
			msgs = append(msgs, models.ValidationMessage{
				Level: models.ValidationError,
				Text:  "PCA should run AFTER Scaling. Move 'Scale' before 'PCA'.",
			})
		}
		if has(filters.EncodeFilter) && !after(filters.PCAFilter, filters.EncodeFilter) {
			msgs = append(msgs, models.ValidationMessage{
				Level: models.ValidationWarning,
				Text:  "PCA is usually applied AFTER Encoding when categoricals exist. Consider moving 'Encode' before 'PCA'.",
			})
		}
		if !has(filters.ScaleFilter) {
			msgs = append(msgs, models.ValidationMessage{
				Level: models.ValidationWarning,
				Text:  "PCA without scaling can be biased by feature magnitudes. Consider adding 'Scale' before 'PCA'.",
			})
		}
	}

	// One-hot encoding changes the feature space scaling should act on.
	if has(filters.ScaleFilter) && has(filters.EncodeFilter) && before(filters.ScaleFilter, filters.EncodeFilter) {
		msgs = append(msgs, models.ValidationMessage{
			Level: models.ValidationWarning,
			Text:  "Scaling is typically done AFTER Encoding (since encoding changes the feature space). Consider swapping 'Encode' and 'Scale'.",
		})
	}

	// Imputation should generally be early. At most one warning, for the first
	// offending later-step in checklist order.
	if has(filters.ImputeFilter) {
		for _, later := range []string{filters.EncodeFilter, filters.ScaleFilter, filters.PCAFilter} {
			if after(filters.ImputeFilter, later) {
				msgs = append(msgs, models.ValidationMessage{
					Level: models.ValidationWarning,
					Text:  "Imputation is usually done BEFORE other preprocessing steps. Consider moving 'Impute' earlier.",
				})
				break
			}
		}
	}

	if len(stepKeys) == 0 {
		msgs = append(msgs, models.ValidationMessage{
			Level: models.ValidationError,
			Text:  "Pipeline has no filters. Please select at least one filter.",
		})
	}

	return msgs
}
