package validate

import (
	"fmt"
	"math"
	"testing"

	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleFrame builds 100 rows with two numeric columns and one categorical
// column holding four distinct values.
func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()

	rows := 100
	a := make([]float64, rows)
	b := make([]float64, rows)
	c := make([]string, rows)
	for i := 0; i < rows; i++ {
		a[i] = float64(i)
		b[i] = float64(i * 2)
		c[i] = fmt.Sprintf("cat%d", i%4)
	}

	f, err := frame.New(
		frame.NewNumericColumn("a", a),
		frame.NewNumericColumn("b", b),
		frame.NewCategoricalColumn("c", c, nil),
	)
	require.NoError(t, err)
	return f
}

func TestData(t *testing.T) {
	t.Run("should short-circuit on an empty dataset", func(t *testing.T) {
		f, err := frame.New(frame.NewNumericColumn("a", []float64{}))
		require.NoError(t, err)

		msgs := Data(f, []string{"impute", "pca"}, nil)

		require.Len(t, msgs, 1)
		assert.Equal(t, models.ValidationError, msgs[0].Level)
		assert.Equal(t, "Dataset is empty or not loaded.", msgs[0].Text)
	})

	t.Run("should short-circuit on a nil dataset", func(t *testing.T) {
		msgs := Data(nil, []string{"scale"}, nil)

		require.Len(t, msgs, 1)
		assert.Equal(t, "Dataset is empty or not loaded.", msgs[0].Text)
	})

	t.Run("should warn about missing values without imputation", func(t *testing.T) {
		f, err := frame.New(frame.NewNumericColumn("a", []float64{1, math.NaN(), math.NaN()}))
		require.NoError(t, err)

		msgs := Data(f, []string{"scale"}, nil)

		warnings := models.Warnings(msgs)
		require.Len(t, warnings, 1)
		assert.Equal(t, "Dataset contains 2 missing values, but 'Impute' is not enabled.", warnings[0].Text)
	})

	t.Run("should not warn about missing values when imputation is enabled", func(t *testing.T) {
		f, err := frame.New(frame.NewNumericColumn("a", []float64{1, math.NaN()}))
		require.NoError(t, err)

		msgs := Data(f, []string{"impute", "scale"}, nil)
		assert.Empty(t, msgs)
	})

	t.Run("should warn when encode has no categoricals to work on", func(t *testing.T) {
		f, err := frame.New(frame.NewNumericColumn("a", []float64{1, 2}))
		require.NoError(t, err)

		msgs := Data(f, []string{"encode"}, nil)

		warnings := models.Warnings(msgs)
		require.Len(t, warnings, 1)
		assert.Equal(t, "Encode is enabled, but no categorical columns were detected.", warnings[0].Text)
	})

	t.Run("should error when PCA faces categoricals without encode", func(t *testing.T) {
		msgs := Data(sampleFrame(t), []string{"scale", "pca"}, nil)

		errs := models.Errors(msgs)
		require.Len(t, errs, 1)
		assert.Equal(t, "PCA is enabled but dataset contains categorical columns and 'Encode' is disabled. PCA needs numeric features.", errs[0].Text)
	})

	t.Run("should error when encode is configured after PCA", func(t *testing.T) {
		msgs := Data(sampleFrame(t), []string{"scale", "pca", "encode"}, nil)

		found := false
		for _, msg := range models.Errors(msgs) {
			if msg.Text == "PCA must run AFTER Encoding when categorical columns exist." {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("should pass when requested components equal the estimated bound", func(t *testing.T) {
		// Two numeric columns plus four indicator columns makes six features.
		msgs := Data(sampleFrame(t), []string{"encode", "scale", "pca"},
			map[string]any{"pca": map[string]any{"n_components": 6}})

		assert.Empty(t, models.Errors(msgs))
	})

	t.Run("should error when requested components exceed the estimated bound", func(t *testing.T) {
		msgs := Data(sampleFrame(t), []string{"encode", "scale", "pca"},
			map[string]any{"pca": map[string]any{"n_components": 7}})

		errs := models.Errors(msgs)
		require.Len(t, errs, 1)
		assert.Equal(t,
			"PCA n_components (7) exceeds the maximum allowed value min(n_samples=100, n_features=6) = 6. Reduce n_components or provide more data.",
			errs[0].Text)
	})

	t.Run("should shrink the estimate under drop first", func(t *testing.T) {
		params := map[string]any{
			"encode": map[string]any{"drop": "first"},
			"pca":    map[string]any{"n_components": 6},
		}

		msgs := Data(sampleFrame(t), []string{"encode", "scale", "pca"}, params)

		errs := models.Errors(msgs)
		require.Len(t, errs, 1)
		assert.Equal(t,
			"PCA n_components (6) exceeds the maximum allowed value min(n_samples=100, n_features=5) = 5. Reduce n_components or provide more data.",
			errs[0].Text)
	})

	t.Run("should bound by sample count when rows are the limit", func(t *testing.T) {
		f, err := frame.New(
			frame.NewNumericColumn("a", []float64{1, 2}),
			frame.NewNumericColumn("b", []float64{3, 4}),
			frame.NewNumericColumn("c", []float64{5, 6}),
		)
		require.NoError(t, err)

		msgs := Data(f, []string{"scale", "pca"},
			map[string]any{"pca": map[string]any{"n_components": 3}})

		errs := models.Errors(msgs)
		require.Len(t, errs, 1)
		assert.Equal(t,
			"PCA n_components (3) exceeds the maximum allowed value min(n_samples=2, n_features=3) = 2. Reduce n_components or provide more data.",
			errs[0].Text)
	})

	t.Run("should error when no features survive to the PCA stage", func(t *testing.T) {
		f, err := frame.New(frame.NewCategoricalColumn("c", []string{"a", "b"}, nil))
		require.NoError(t, err)

		msgs := Data(f, []string{"pca"}, nil)

		found := false
		for _, msg := range models.Errors(msgs) {
			if msg.Text == "PCA cannot run because there will be no valid features or samples at PCA stage." {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("should default the requested components to five", func(t *testing.T) {
		// Estimated features at PCA is 6; default 5 fits.
		msgs := Data(sampleFrame(t), []string{"encode", "scale", "pca"}, nil)
		assert.Empty(t, models.Errors(msgs))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		f := sampleFrame(t)
		steps := []string{"encode", "scale", "pca"}
		params := map[string]any{"pca": map[string]any{"n_components": 7}}

		first := Data(f, steps, params)
		second := Data(f, steps, params)
		assert.Equal(t, first, second)
	})

	t.Run("should honor a caller-supplied width estimator", func(t *testing.T) {
		fixed := func(f *frame.Frame, col string, dropFirst bool) int { return 1 }

		msgs := DataWithEstimator(sampleFrame(t), []string{"encode", "scale", "pca"},
			map[string]any{"pca": map[string]any{"n_components": 4}}, fixed)

		errs := models.Errors(msgs)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Text, "n_features=3")
	})
}
