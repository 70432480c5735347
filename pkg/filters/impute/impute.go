package impute

import (
	"math"
	"sort"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

const StageName = "Impute Missing Values"

const (
	StrategyMedian       = "median"
	StrategyMean         = "mean"
	StrategyMostFrequent = "most_frequent"
)

type ImputeParams struct {
	// StrategyNum fills missing numeric cells: "median" (default) or "mean".
	StrategyNum string `json:"strategy_num" validate:"omitempty,oneof=median mean"`
	// StrategyCat fills missing categorical cells: "most_frequent" (default).
	StrategyCat string `json:"strategy_cat" validate:"omitempty,oneof=most_frequent"`
}

func NewImputeFilter(key string, args any) (models.Filter, error) {
	params, err := utils.ValidateArguments[ImputeParams](args)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddFilter(key)
	}

	if params.StrategyNum == "" {
		params.StrategyNum = StrategyMedian
	}
	if params.StrategyCat == "" {
		params.StrategyCat = StrategyMostFrequent
	}

	return &ImputeFilter{key: key, params: params}, nil
}

type ImputeFilter struct {
	key    string
	params ImputeParams
}

func (f *ImputeFilter) Name() string {
	return StageName
}

func (f *ImputeFilter) Params() any {
	return f.params
}

func (f *ImputeFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	df := packet.Frame.Clone()
	missingBefore := df.MissingCount()

	numCols := df.NumericColumns()
	catCols := df.CategoricalColumns()

	for _, name := range numCols {
		col, _ := df.Column(name)
		fill, ok := numericFill(col.Floats, f.params.StrategyNum)
		if !ok {
			continue // nothing observed, leave the column alone
		}
		for i, v := range col.Floats {
			if math.IsNaN(v) {
				col.Floats[i] = fill
			}
		}
		if err := df.SetColumn(col); err != nil {
			return nil, errors.WrapPipelineError(err).AddStage(StageName)
		}
	}

	for _, name := range catCols {
		col, _ := df.Column(name)
		fill, ok := mostFrequent(col)
		if !ok {
			continue
		}
		for i := range col.Strings {
			if col.Missing[i] {
				col.Strings[i] = fill
				col.Missing[i] = false
			}
		}
		if err := df.SetColumn(col); err != nil {
			return nil, errors.WrapPipelineError(err).AddStage(StageName)
		}
	}

	packet.Frame = df
	packet.SetStats(StageName, map[string]any{
		"missing_before": missingBefore,
		"missing_after":  df.MissingCount(),
		"num_cols":       numCols,
		"cat_cols":       catCols,
		"strategies":     map[string]any{"num": f.params.StrategyNum, "cat": f.params.StrategyCat},
	})
	packet.SetModified(StageName, append(append([]string{}, numCols...), catCols...))
	return packet, nil
}

// numericFill computes the fill value over the observed cells. ok is false
// when every cell is missing.
func numericFill(values []float64, strategy string) (float64, bool) {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return 0, false
	}

	if strategy == StrategyMean {
		sum := 0.0
		for _, v := range observed {
			sum += v
		}
		return sum / float64(len(observed)), true
	}

	sort.Float64s(observed)
	mid := len(observed) / 2
	if len(observed)%2 == 0 {
		return (observed[mid-1] + observed[mid]) / 2, true
	}
	return observed[mid], true
}

// mostFrequent returns the modal observed value, breaking count ties by the
// lexicographically smaller value so imputation is deterministic.
func mostFrequent(col frame.Column) (string, bool) {
	counts := map[string]int{}
	for i, v := range col.Strings {
		if !col.Missing[i] {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	best := ""
	bestCount := -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best = v
			bestCount = n
		}
	}
	return best, true
}
