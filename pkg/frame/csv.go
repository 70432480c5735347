package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Tokens treated as a missing cell when decoding CSV input.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
}

func isMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ReadCSV decodes a headered CSV document into a Frame. A column is inferred
// as numeric when every non-missing cell parses as a float; otherwise it is
// categorical. A column whose cells are all missing is inferred as categorical.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: no header row")
	}

	header := records[0]
	rows := records[1:]

	f := &Frame{}
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j >= len(row) {
				return nil, fmt.Errorf("read csv: row %d has %d cells, header has %d", i+1, len(row), len(header))
			}
			cells[i] = row[j]
		}

		if col, ok := tryNumericColumn(name, cells); ok {
			if err := f.AddColumn(col); err != nil {
				return nil, err
			}
			continue
		}

		missing := make([]bool, len(cells))
		values := make([]string, len(cells))
		for i, cell := range cells {
			if isMissingToken(cell) {
				missing[i] = true
				continue
			}
			values[i] = cell
		}
		if err := f.AddColumn(NewCategoricalColumn(name, values, missing)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func tryNumericColumn(name string, cells []string) (Column, bool) {
	floats := make([]float64, len(cells))
	observed := false
	for i, cell := range cells {
		if isMissingToken(cell) {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Column{}, false
		}
		floats[i] = v
		observed = true
	}
	if !observed {
		return Column{}, false
	}
	return NewNumericColumn(name, floats), true
}

// WriteCSV encodes the frame as a headered CSV document. Missing cells are
// written as empty strings.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(f.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
