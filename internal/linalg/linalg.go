// Package linalg wraps the LU-based gonum/mat operations the ICA core needs
// (GETRF factorization, |det|, and GETRI inversion). gonum is the concrete
// binding the rest of the pack converges on; see DESIGN.md. GEMM itself is
// used directly via *mat.Dense.Mul at call sites (mirroring
// bitjungle/gopca/internal/core/pca.go's svdAlgorithm, which calls
// scores.Mul(...) inline rather than through a wrapper), and the SYEV-style
// eigendecomposition is done with mat.EigenSym directly in internal/whiten.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LU is a reusable GETRF factorization, recomputed in place on every call
// to Factorize so the objective functor never reallocates it across
// optimizer iterations.
type LU struct {
	fact mat.LU
}

// Factorize runs GETRF on the square matrix a, overwriting any previous
// factorization held by lu.
func (lu *LU) Factorize(a mat.Matrix) {
	lu.fact.Factorize(a)
}

// AbsDet returns |det(A)| from the most recent factorization: the product
// of the absolute values of the LU diagonal.
func (lu *LU) AbsDet() float64 {
	return math.Abs(lu.fact.Det())
}

// InverseInto computes A^-1 (GETRI) from the most recent factorization and
// stores it in dst, which must already be sized n×n.
func (lu *LU) InverseInto(dst *mat.Dense) error {
	if err := lu.fact.InverseTo(dst); err != nil {
		return fmt.Errorf("linalg: matrix is singular, cannot invert: %w", err)
	}
	return nil
}
