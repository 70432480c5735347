package scale

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

const StageName = "Scale Numeric Features"

const (
	MethodStandard = "standard"
	MethodMinMax   = "minmax"
)

type ScaleParams struct {
	// Method is "standard" (zero mean, unit variance; default) or "minmax"
	// (rescale to [0, 1]).
	Method string `json:"method" validate:"omitempty,oneof=standard minmax"`
}

func NewScaleFilter(key string, args any) (models.Filter, error) {
	params, err := utils.ValidateArguments[ScaleParams](args)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddFilter(key)
	}

	if params.Method == "" {
		params.Method = MethodStandard
	}

	return &ScaleFilter{key: key, params: params}, nil
}

type ScaleFilter struct {
	key    string
	params ScaleParams
}

func (f *ScaleFilter) Name() string {
	return StageName
}

func (f *ScaleFilter) Params() any {
	return f.params
}

func (f *ScaleFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	df := packet.Frame.Clone()
	numCols := df.NumericColumns()

	if len(numCols) == 0 {
		packet.SetStats(StageName, map[string]any{"note": "No numeric columns found."})
		packet.SetModified(StageName, []string{})
		return packet, nil
	}

	for _, name := range numCols {
		col, _ := df.Column(name)
		if f.params.Method == MethodMinMax {
			minMaxScale(col.Floats)
		} else {
			standardize(col.Floats)
		}
		if err := df.SetColumn(col); err != nil {
			return nil, errors.WrapPipelineError(err).AddStage(StageName).AddColumn(name)
		}
	}

	packet.Frame = df
	packet.SetStats(StageName, map[string]any{"num_cols": numCols, "method": f.params.Method})
	// Scaling modifies values in place, the schema is unchanged.
	packet.SetModified(StageName, numCols)
	return packet, nil
}

// standardize rescales to zero mean and unit variance. A zero-variance column
// collapses to all zeros. Missing cells (NaN) are skipped.
func standardize(values []float64) {
	mean, std := meanStd(values)
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if std != 0 {
			values[i] = (v - mean) / std
		} else {
			values[i] = 0
		}
	}
}

// minMaxScale rescales to [0, 1]. A constant column collapses to all zeros.
func minMaxScale(values []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if hi != lo {
			values[i] = (v - lo) / (hi - lo)
		} else {
			values[i] = 0
		}
	}
}

func meanStd(values []float64) (float64, float64) {
	n := 0
	sum := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean := sum / float64(n)

	sq := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			sq += (v - mean) * (v - mean)
		}
	}
	return mean, math.Sqrt(sq / float64(n))
}
