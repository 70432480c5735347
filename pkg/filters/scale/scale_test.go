package scale

import (
	"math"
	"testing"

	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPacket(t *testing.T, cols ...frame.Column) *models.DataPacket {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	return models.NewDataPacket(f)
}

func TestScaleFilter(t *testing.T) {
	t.Run("should default to the standard method", func(t *testing.T) {
		filter, err := NewScaleFilter("scale", nil)
		require.NoError(t, err)

		params, ok := filter.Params().(ScaleParams)
		require.True(t, ok)
		assert.Equal(t, MethodStandard, params.Method)
	})

	t.Run("should reject an unknown method", func(t *testing.T) {
		_, err := NewScaleFilter("scale", map[string]any{"method": "robust"})
		assert.Error(t, err)
	})

	t.Run("should standardize to zero mean and unit variance", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("x", []float64{1, 2, 3}))

		filter, err := NewScaleFilter("scale", nil)
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		col, _ := out.Frame.Column("x")
		assert.InDelta(t, 0, col.Floats[0]+col.Floats[1]+col.Floats[2], 1e-12)
		assert.InDelta(t, -math.Sqrt(1.5), col.Floats[0], 1e-12)
		assert.InDelta(t, math.Sqrt(1.5), col.Floats[2], 1e-12)
	})

	t.Run("should collapse a constant column to zeros under standard", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("x", []float64{5, 5, 5}))

		filter, err := NewScaleFilter("scale", nil)
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		col, _ := out.Frame.Column("x")
		assert.Equal(t, []float64{0, 0, 0}, col.Floats)
	})

	t.Run("should rescale to the unit interval under minmax", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("x", []float64{10, 20, 30}))

		filter, err := NewScaleFilter("scale", ScaleParams{Method: MethodMinMax})
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		col, _ := out.Frame.Column("x")
		assert.Equal(t, []float64{0, 0.5, 1}, col.Floats)
	})

	t.Run("should skip missing cells", func(t *testing.T) {
		packet := newPacket(t, frame.NewNumericColumn("x", []float64{0, math.NaN(), 10}))

		filter, err := NewScaleFilter("scale", ScaleParams{Method: MethodMinMax})
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		col, _ := out.Frame.Column("x")
		assert.Equal(t, 0.0, col.Floats[0])
		assert.True(t, math.IsNaN(col.Floats[1]))
		assert.Equal(t, 1.0, col.Floats[2])
	})

	t.Run("should leave categorical columns untouched", func(t *testing.T) {
		packet := newPacket(t,
			frame.NewNumericColumn("x", []float64{1, 2}),
			frame.NewCategoricalColumn("c", []string{"a", "b"}, nil),
		)

		filter, err := NewScaleFilter("scale", nil)
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		col, _ := out.Frame.Column("c")
		assert.Equal(t, []string{"a", "b"}, col.Strings)
		assert.Equal(t, []string{"x"}, out.ModifiedFor(StageName))
	})

	t.Run("should no-op with a note when no numeric columns exist", func(t *testing.T) {
		packet := newPacket(t, frame.NewCategoricalColumn("c", []string{"a"}, nil))

		filter, err := NewScaleFilter("scale", nil)
		require.NoError(t, err)

		out, err := filter.Run(packet)
		require.NoError(t, err)

		assert.Equal(t, "No numeric columns found.", out.StatsFor(StageName)["note"])
	})
}
