package pca

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/frame"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

const StageName = "PCA Feature Extraction"

type PCAParams struct {
	// NComponents is the number of principal components to extract, capped at
	// min(sample count, feature count). Default 5.
	NComponents int `json:"n_components" validate:"omitempty,min=1"`
	// MaxIters bounds the power iteration per component. Default 100.
	MaxIters int `json:"max_iters" validate:"omitempty,min=1"`
}

func NewPCAFilter(key string, args any) (models.Filter, error) {
	params, err := utils.ValidateArguments[PCAParams](args)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddFilter(key)
	}

	if params.NComponents == 0 {
		params.NComponents = 5
	}
	if params.MaxIters == 0 {
		params.MaxIters = 100
	}

	return &PCAFilter{key: key, params: params}, nil
}

type PCAFilter struct {
	key    string
	params PCAParams
}

func (f *PCAFilter) Name() string {
	return StageName
}

func (f *PCAFilter) Params() any {
	return f.params
}

// Run projects the numeric columns onto their top principal components and
// replaces the whole table with the projected features PC1..PCk. Categorical
// columns (if any survived this far) are dropped with the rest of the schema.
func (f *PCAFilter) Run(packet *models.DataPacket) (*models.DataPacket, error) {
	df := packet.Frame
	numCols := df.NumericColumns()
	if len(numCols) == 0 {
		return nil, errors.NewPipelineError("PCA requires numeric features, but none were found").AddStage(StageName)
	}

	rows := df.Rows()
	X := make([][]float64, rows)
	for i := range X {
		X[i] = make([]float64, len(numCols))
	}
	for j, name := range numCols {
		col, _ := df.Column(name)
		for i, v := range col.Floats {
			X[i][j] = v
		}
	}

	n := f.params.NComponents
	if n > len(numCols) {
		n = len(numCols)
	}
	if n > rows {
		n = rows
	}
	if n < 1 {
		return nil, errors.NewPipelineError("n_components must be >= 1 and <= min(n_samples, n_features)").AddStage(StageName)
	}

	Z, explained, err := fitTransform(X, n, f.params.MaxIters)
	if err != nil {
		return nil, errors.WrapPipelineError(err).AddStage(StageName)
	}

	out := &frame.Frame{}
	for k := 0; k < n; k++ {
		component := make([]float64, rows)
		for i := range component {
			component[i] = Z[i][k]
		}
		if err := out.AddColumn(frame.NewNumericColumn(fmt.Sprintf("PC%d", k+1), component)); err != nil {
			return nil, errors.WrapPipelineError(err).AddStage(StageName)
		}
	}

	packet.Frame = out
	packet.SetStats(StageName, map[string]any{
		"input_features":           len(numCols),
		"output_features":          n,
		"explained_variance_ratio": explained,
		"n_components_used":        n,
	})
	packet.SetModified(StageName, []string{})
	return packet, nil
}

// fitTransform extracts the top k principal components via power iteration
// with deflation and projects X onto them. NaN cells are rejected; PCA needs
// a fully-imputed numeric matrix.
func fitTransform(X [][]float64, k, maxIters int) ([][]float64, []float64, error) {
	n, d := len(X), len(X[0])

	// Center the matrix.
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			if math.IsNaN(X[i][j]) {
				return nil, nil, fmt.Errorf("numeric matrix contains missing values; impute before PCA")
			}
			means[j] += X[i][j]
		}
		means[j] /= float64(n)
	}
	Z := make([][]float64, n)
	for i := 0; i < n; i++ {
		Z[i] = make([]float64, d)
		for j := 0; j < d; j++ {
			Z[i][j] = X[i][j] - means[j]
		}
	}

	// Total variance, for the explained-variance ratios.
	totalVar := 0.0
	if n > 1 {
		for j := 0; j < d; j++ {
			for i := 0; i < n; i++ {
				totalVar += Z[i][j] * Z[i][j]
			}
		}
		totalVar /= float64(n - 1)
	}

	// Fixed seed keeps the projection reproducible for identical input.
	rng := rand.New(rand.NewSource(1))

	components := make([][]float64, 0, k)
	eigenvalues := make([]float64, 0, k)
	for comp := 0; comp < k; comp++ {
		v := make([]float64, d)
		for j := range v {
			v[j] = rng.Float64()
		}
		v = normalize(v)

		// Power iteration: v <- normalize(Z^T (Z v)).
		for t := 0; t < maxIters; t++ {
			Zv := make([]float64, n)
			for i := 0; i < n; i++ {
				s := 0.0
				for j := 0; j < d; j++ {
					s += Z[i][j] * v[j]
				}
				Zv[i] = s
			}
			w := make([]float64, d)
			for j := 0; j < d; j++ {
				s := 0.0
				for i := 0; i < n; i++ {
					s += Z[i][j] * Zv[i]
				}
				w[j] = s
			}
			v = normalize(w)
		}

		lam := 0.0
		for i := 0; i < n; i++ {
			s := 0.0
			for j := 0; j < d; j++ {
				s += Z[i][j] * v[j]
			}
			lam += s * s
		}
		if n > 1 {
			lam /= float64(n - 1)
		}
		eigenvalues = append(eigenvalues, lam)
		components = append(components, v)

		// Deflate: Z <- Z - (Z v) v^T.
		for i := 0; i < n; i++ {
			proj := 0.0
			for j := 0; j < d; j++ {
				proj += Z[i][j] * v[j]
			}
			for j := 0; j < d; j++ {
				Z[i][j] -= proj * v[j]
			}
		}
	}

	// Project the centered data onto the components.
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, k)
		for c := 0; c < k; c++ {
			s := 0.0
			for j := 0; j < d; j++ {
				s += (X[i][j] - means[j]) * components[c][j]
			}
			out[i][c] = s
		}
	}

	explained := make([]float64, k)
	for i, lam := range eigenvalues {
		if totalVar > 0 {
			explained[i] = lam / totalVar
		}
	}
	return out, explained, nil
}

func normalize(v []float64) []float64 {
	sumSquared := 0.0
	for _, val := range v {
		sumSquared += val * val
	}
	norm := math.Sqrt(sumSquared)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}
