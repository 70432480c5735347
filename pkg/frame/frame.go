// Package frame provides the tabular dataset that preprocessing filters operate on.
//
// A Frame is an ordered collection of named columns. Every column has a semantic
// kind: numeric columns hold float64 values (NaN marks a missing cell), categorical
// columns hold strings with an explicit per-row missing flag. Filters receive a
// Frame they are free to mutate; callers that need to retain the pre-step table
// take a copy first (see Head and Clone).
package frame

import (
	"fmt"
	"math"
	"sort"
)

// Kind is the semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column is a single named column. Exactly one of Floats or Strings is
// populated, depending on Kind. Missing is only used for categorical columns;
// numeric columns mark missing cells with NaN.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// NewNumericColumn builds a numeric column. Use math.NaN() for missing cells.
func NewNumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Floats: values}
}

// NewCategoricalColumn builds a categorical column. missing may be nil when no
// cell is missing.
func NewCategoricalColumn(name string, values []string, missing []bool) Column {
	if missing == nil {
		missing = make([]bool, len(values))
	}
	return Column{Name: name, Kind: KindCategorical, Strings: values, Missing: missing}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing reports whether the cell at row i is missing.
func (c Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Missing[i]
}

// Cell returns the printable value of row i. Missing cells render as "".
func (c Column) Cell(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == KindNumeric {
		return formatFloat(c.Floats[i])
	}
	return c.Strings[i]
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	if c.Missing != nil {
		out.Missing = append([]bool(nil), c.Missing...)
	}
	return out
}

// Frame is a rows-by-named-columns table.
type Frame struct {
	columns []Column
}

// New builds a Frame from columns. All columns must have the same row count.
func New(columns ...Column) (*Frame, error) {
	f := &Frame{}
	for _, col := range columns {
		if err := f.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Rows returns the row count.
func (f *Frame) Rows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// Cols returns the column count.
func (f *Frame) Cols() int {
	return len(f.columns)
}

// Shape returns (rows, cols).
func (f *Frame) Shape() (int, int) {
	return f.Rows(), f.Cols()
}

// Columns returns the columns in order.
func (f *Frame) Columns() []Column {
	return f.columns
}

// Column returns the named column, if present.
func (f *Frame) Column(name string) (Column, bool) {
	for _, col := range f.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, 0, len(f.columns))
	for _, col := range f.columns {
		names = append(names, col.Name)
	}
	return names
}

// NumericColumns returns the names of numeric columns, in frame order.
func (f *Frame) NumericColumns() []string {
	names := []string{}
	for _, col := range f.columns {
		if col.Kind == KindNumeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// CategoricalColumns returns the names of categorical columns, in frame order.
func (f *Frame) CategoricalColumns() []string {
	names := []string{}
	for _, col := range f.columns {
		if col.Kind == KindCategorical {
			names = append(names, col.Name)
		}
	}
	return names
}

// AddColumn appends a column. Fails when the name is taken or the row count
// disagrees with the existing columns.
func (f *Frame) AddColumn(col Column) error {
	if _, ok := f.Column(col.Name); ok {
		return fmt.Errorf("column '%s' already exists", col.Name)
	}
	if len(f.columns) > 0 && col.Len() != f.Rows() {
		return fmt.Errorf("column '%s' has %d rows, frame has %d", col.Name, col.Len(), f.Rows())
	}
	f.columns = append(f.columns, col)
	return nil
}

// SetColumn replaces the named column in place, keeping its position.
func (f *Frame) SetColumn(col Column) error {
	for i := range f.columns {
		if f.columns[i].Name == col.Name {
			if col.Len() != f.Rows() {
				return fmt.Errorf("column '%s' has %d rows, frame has %d", col.Name, col.Len(), f.Rows())
			}
			f.columns[i] = col
			return nil
		}
	}
	return fmt.Errorf("column '%s' not found", col.Name)
}

// DropColumn removes the named column. Dropping an absent column is a no-op.
func (f *Frame) DropColumn(name string) {
	out := f.columns[:0]
	for _, col := range f.columns {
		if col.Name != name {
			out = append(out, col)
		}
	}
	f.columns = out
}

// MissingCount returns the number of missing cells across the whole frame.
func (f *Frame) MissingCount() int {
	total := 0
	for _, col := range f.columns {
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				total++
			}
		}
	}
	return total
}

// DistinctCount returns the number of distinct values in the named column.
// When countMissing is true, missing cells count as one extra category (the
// behavior a one-hot encoder exhibits on un-imputed data). Returns 0 for an
// unknown column or an empty frame.
func (f *Frame) DistinctCount(name string, countMissing bool) int {
	col, ok := f.Column(name)
	if !ok {
		return 0
	}
	seen := map[string]struct{}{}
	hasMissing := false
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			hasMissing = true
			continue
		}
		seen[col.Cell(i)] = struct{}{}
	}
	n := len(seen)
	if countMissing && hasMissing {
		n++
	}
	return n
}

// DistinctValues returns the sorted distinct observed values of the named
// column. When includeMissing is true and the column has missing cells, the
// missing-category token is appended last.
func (f *Frame) DistinctValues(name string, includeMissing bool) []string {
	col, ok := f.Column(name)
	if !ok {
		return nil
	}
	seen := map[string]struct{}{}
	hasMissing := false
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			hasMissing = true
			continue
		}
		seen[col.Cell(i)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	if includeMissing && hasMissing {
		values = append(values, MissingToken)
	}
	return values
}

// MissingToken is the category label used for missing cells when a categorical
// column is one-hot encoded without prior imputation.
const MissingToken = "nan"

// Head returns a deep copy of the first n rows (all rows when n exceeds the
// row count, the empty frame when n <= 0).
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.Rows() {
		n = f.Rows()
	}
	out := &Frame{columns: make([]Column, 0, len(f.columns))}
	for _, col := range f.columns {
		c := Column{Name: col.Name, Kind: col.Kind}
		if col.Kind == KindNumeric {
			c.Floats = append([]float64(nil), col.Floats[:n]...)
		} else {
			c.Strings = append([]string(nil), col.Strings[:n]...)
			c.Missing = append([]bool(nil), col.Missing[:n]...)
		}
		out.columns = append(out.columns, c)
	}
	return out
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{columns: make([]Column, 0, len(f.columns))}
	for _, col := range f.columns {
		out.columns = append(out.columns, col.clone())
	}
	return out
}

// Records renders the frame as a header row followed by one record per row,
// with missing cells rendered as "".
func (f *Frame) Records() [][]string {
	records := make([][]string, 0, f.Rows()+1)
	records = append(records, f.ColumnNames())
	for i := 0; i < f.Rows(); i++ {
		row := make([]string, 0, len(f.columns))
		for _, col := range f.columns {
			row = append(row, col.Cell(i))
		}
		records = append(records, row)
	}
	return records
}
