package frame

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Run("should infer column kinds from cell contents", func(t *testing.T) {
		input := "age,city\n30,NY\n40,LA\n50,NY\n"

		f, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"age"}, f.NumericColumns())
		assert.Equal(t, []string{"city"}, f.CategoricalColumns())

		col, ok := f.Column("age")
		require.True(t, ok)
		assert.Equal(t, []float64{30, 40, 50}, col.Floats)
	})

	t.Run("should decode missing tokens as missing cells", func(t *testing.T) {
		input := "age,city\n30,NY\nNA,\nnan,null\n"

		f, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		age, _ := f.Column("age")
		assert.True(t, math.IsNaN(age.Floats[1]))
		assert.True(t, math.IsNaN(age.Floats[2]))

		city, _ := f.Column("city")
		assert.False(t, city.IsMissing(0))
		assert.True(t, city.IsMissing(1))
		assert.True(t, city.IsMissing(2))
		assert.Equal(t, 4, f.MissingCount())
	})

	t.Run("should treat an all-missing column as categorical", func(t *testing.T) {
		input := "a,b\n1,NA\n2,\n"

		f, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"b"}, f.CategoricalColumns())
	})

	t.Run("should treat mixed cells as categorical", func(t *testing.T) {
		input := "a\n1\ntwo\n"

		f, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"a"}, f.CategoricalColumns())
	})

	t.Run("should error on a truly empty document", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("should accept a header-only document as a zero-row frame", func(t *testing.T) {
		f, err := ReadCSV(strings.NewReader("a,b\n"))
		require.NoError(t, err)

		rows, cols := f.Shape()
		assert.Equal(t, 0, rows)
		assert.Equal(t, 2, cols)
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("should render missing cells as empty strings", func(t *testing.T) {
		f, err := New(
			NewNumericColumn("age", []float64{30, math.NaN()}),
			NewCategoricalColumn("city", []string{"NY", ""}, []bool{false, true}),
		)
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, WriteCSV(&sb, f))

		assert.Equal(t, "age,city\n30,NY\n,\n", sb.String())
	})
}
