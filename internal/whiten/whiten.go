// Package whiten implements the centering/eigendecomposition whitening
// stage that turns raw channel-major observations into a C x N matrix with
// (approximately) zero row means and identity covariance, the precondition
// the objective functor's det(W) assumption relies on.
package whiten

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parica/linearica/pkg/types"
)

// DefaultEpsWhiten is the floor below which a covariance eigenvalue is
// treated as numerically indefinite rather than merely small.
const DefaultEpsWhiten = 1e-10

// Result holds the whitened data together with the pieces a caller may
// want for diagnostics or for undoing the transform.
type Result struct {
	X      *mat.Dense // C x N, whitened
	Means  []float64  // per-channel means subtracted during centering
	Q      *mat.Dense // C x C whitening matrix, Lambda^(-1/2) * U^T
}

// Whiten centers each row of x (C x N) and decorrelates it via the
// eigendecomposition of its covariance, following:
//
//  1. x_hat[c,f] = x[c,f] - mean(x[c,:])
//  2. Sigma = (1/N) * x_hat * x_hat^T
//  3. Sigma = U * Lambda * U^T
//  4. Q = Lambda^(-1/2) * U^T
//  5. X_white = Q * x_hat
//
// epsWhiten floors the eigenvalues accepted as numerically positive; any
// eigenvalue at or below it fails whitening with an ErrComputation, since a
// near-singular covariance means the input channels are (near) linearly
// dependent and no finite Q can decorrelate them.
func Whiten(x *mat.Dense, epsWhiten float64) (*Result, error) {
	c, n := x.Dims()

	means := make([]float64, c)
	xHat := mat.NewDense(c, n, nil)
	for i := 0; i < c; i++ {
		row := mat.Row(nil, i, x)
		var sum float64
		for _, v := range row {
			sum += v
		}
		mean := sum / float64(n)
		means[i] = mean
		centered := make([]float64, n)
		for j, v := range row {
			centered[j] = v - mean
		}
		xHat.SetRow(i, centered)
	}

	cov := mat.NewSymDense(c, nil)
	var acc mat.Dense
	acc.Mul(xHat, xHat.T())
	for i := 0; i < c; i++ {
		for j := i; j < c; j++ {
			cov.SetSym(i, j, acc.At(i, j)/float64(n))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, types.NewComputationError("whiten: covariance eigendecomposition failed", nil)
	}

	values := eig.Values(nil)
	for _, v := range values {
		if v <= epsWhiten {
			return nil, types.NewComputationError("whiten: covariance has a non-positive or near-singular eigenvalue (rank-deficient input)", nil)
		}
	}

	vectors := mat.NewDense(c, c, nil)
	eig.VectorsTo(vectors)

	// Q = Lambda^(-1/2) * U^T: scale each row of U^T by the corresponding
	// inverse-sqrt eigenvalue.
	q := mat.NewDense(c, c, nil)
	q.Copy(vectors.T())
	for i := 0; i < c; i++ {
		scale := 1 / math.Sqrt(values[i])
		row := mat.Row(nil, i, q)
		for j := range row {
			row[j] *= scale
		}
		q.SetRow(i, row)
	}

	xWhite := mat.NewDense(c, n, nil)
	xWhite.Mul(q, xHat)

	return &Result{X: xWhite, Means: means, Q: q}, nil
}
