package encode

import (
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

const StageName = "One-Hot Encode Categoricals"

const DropFirst = "first"

type EncodeParams struct {
	// Drop is "" (keep every category) or "first" (drop the first category of
	// each column to avoid the dummy-variable trap).
	Drop string `json:"drop" validate:"omitempty,oneof=first"`
}

func NewEncodeFilter(key string, args any) (models.Filter, error) {
	params, err := utils.ValidateArguments[EncodeParams](args)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddFilter(key)
	}

	return &EncodeFilter{key: key, params: params}, nil
}

type EncodeFilter struct {
	key    string
	params EncodeParams
}

func (f *EncodeFilter) Name() string {
	return StageName
}

func (f *EncodeFilter) Params() any {
	return f.params
}

// Run replaces every categorical column with one 0/1 indicator column per
// distinct value. Missing cells form their own category. Numeric columns pass
// through unchanged, ahead of the indicator columns.
func (f *EncodeFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	df := packet.Frame

	numCols := df.NumericColumns()
	catCols := df.CategoricalColumns()

	if len(catCols) == 0 {
		packet.SetStats(StageName, map[string]any{"note": "No categorical columns found."})
		packet.SetModified(StageName, []string{})
		return packet, nil
	}

	out := &frame.Frame{}
	for _, name := range numCols {
		col, _ := df.Column(name)
		if err := out.AddColumn(col); err != nil {
			return nil, errors.WrapPipelineError(err).AddStage(StageName).AddColumn(name)
		}
	}

	newColumns := 0
	for _, name := range catCols {
		values := df.DistinctValues(name, true)
		if len(values) == 0 {
			continue
		}
		if f.params.Drop == DropFirst && len(values) > 1 {
			values = values[1:]
		}

		col, _ := df.Column(name)
		for _, value := range values {
			indicator := make([]float64, col.Len())
			for i := range indicator {
				cell := col.Cell(i)
				if col.IsMissing(i) {
					cell = frame.MissingToken
				}
				if cell == value {
					indicator[i] = 1
				}
			}
			encoded := frame.NewNumericColumn(name+"_"+value, indicator)
			if err := out.AddColumn(encoded); err != nil {
				return nil, errors.WrapPipelineError(err).AddStage(StageName).AddColumn(encoded.Name)
			}
			newColumns++
		}
	}

	packet.Frame = out
	packet.SetStats(StageName, map[string]any{
		"cat_cols_removed": catCols,
		"num_cols_kept":    numCols,
		"new_columns":      newColumns,
		"drop":             f.params.Drop,
	})
	// Encoding changes the schema; the schema diff reports it, nothing is
	// modified in place.
	packet.SetModified(StageName, []string{})
	return packet, nil
}
