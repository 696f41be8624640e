// Package linearica implements a linear Independent Component Analysis
// engine: given an observed C-channel, N-frame matrix assumed to be a
// linear mixing of C statistically independent sources, it recovers an
// unmixing matrix W and bias b such that W*X + b approximates the sources
// up to permutation and scaling.
package linearica

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parica/linearica/internal/density"
	"github.com/parica/linearica/internal/objective"
	"github.com/parica/linearica/internal/solver"
	"github.com/parica/linearica/internal/whiten"
	"github.com/parica/linearica/pkg/types"
)

// LinearICA recovers independent sources from the observed matrix X
// (C channels x N frames): validates the input, whitens it, minimizes the
// maximum-likelihood objective over theta = (W, b) starting from W = I_C,
// b = 0, and projects the optimized unmixing onto the whitened data.
func LinearICA[T types.Float](x types.Matrix[T], opts Options) (types.Matrix[T], error) {
	if err := validate(x); err != nil {
		return nil, err
	}

	c, n := x.Dims()
	xDense := mat.NewDense(c, n, nil)
	for i, row := range types.ToFloat64(x) {
		xDense.SetRow(i, row)
	}

	whitened, err := whiten.Whiten(xDense, opts.EpsWhiten)
	if err != nil {
		return nil, err
	}

	model := density.NewGeneralizedGaussian()
	fn := objective.New(whitened.X, model, opts.EpsDet)

	theta0 := objective.IdentityTheta(c)
	result, err := solver.Run(fn, theta0, opts.solverOptions())
	if err != nil {
		return nil, types.NewComputationError("linearica: optimizer failed", err)
	}

	if !result.Converged && opts.StrictConvergence {
		return nil, types.NewConvergenceError("linearica: optimizer did not converge within the iteration budget", result.Stats.MajorIterations)
	}

	w := mat.NewDense(c, c, nil)
	b := make([]float64, c)
	idx := 0
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			w.Set(i, j, result.Theta[idx])
			idx++
		}
	}
	for i := 0; i < c; i++ {
		b[i] = result.Theta[idx]
		idx++
	}

	s := mat.NewDense(c, n, nil)
	s.Mul(w, whitened.X)
	for i := 0; i < c; i++ {
		for j := 0; j < n; j++ {
			s.Set(i, j, s.At(i, j)+b[i])
		}
	}

	out := make([][]float64, c)
	for i := 0; i < c; i++ {
		out[i] = mat.Row(nil, i, s)
	}
	return types.FromFloat64[T](out), nil
}

func validate[T types.Float](x types.Matrix[T]) error {
	if !x.Rectangular() {
		return types.NewDimensionError("linearica: non-rectangular input matrix", 0, 0)
	}

	c, n := x.Dims()
	if c < 1 {
		return types.NewDimensionError("linearica: need at least 1 channel", 1, c)
	}
	if n < 2 {
		return types.NewDimensionError("linearica: need at least 2 frames", 2, n)
	}
	if n < c {
		return types.NewDimensionError("linearica: need at least as many frames as channels", c, n)
	}

	for _, row := range x {
		for _, v := range row {
			if math.IsNaN(float64(v)) {
				return types.NewValidationError("linearica: input matrix contains NaN values")
			}
		}
	}

	return nil
}
