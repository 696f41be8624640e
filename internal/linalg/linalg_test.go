package linalg

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLUAbsDetKnownMatrix(t *testing.T) {
	// [[2,0],[0,4]] has det 8.
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 4})

	var lu LU
	lu.Factorize(a)

	if got := lu.AbsDet(); math.Abs(got-8) > 1e-9 {
		t.Fatalf("AbsDet() = %v, want 8", got)
	}
}

func TestLUInverseIntoKnownMatrix(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})

	var lu LU
	lu.Factorize(a)

	dst := mat.NewDense(2, 2, nil)
	if err := lu.InverseInto(dst); err != nil {
		t.Fatalf("InverseInto returned error: %v", err)
	}

	want := mat.NewDense(2, 2, []float64{0.6, -0.7, -0.2, 0.4})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(dst.At(i, j)-want.At(i, j)) > 1e-9 {
				t.Errorf("inverse[%d][%d] = %v, want %v", i, j, dst.At(i, j), want.At(i, j))
			}
		}
	}

	var identity mat.Dense
	identity.Mul(a, dst)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(identity.At(i, j)-want) > 1e-9 {
				t.Errorf("A*Ainv[%d][%d] = %v, want %v", i, j, identity.At(i, j), want)
			}
		}
	}
}

func TestLUInverseIntoSingularMatrixFails(t *testing.T) {
	// rows are linearly dependent: row1 = 2*row0.
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})

	var lu LU
	lu.Factorize(a)

	dst := mat.NewDense(2, 2, nil)
	if err := lu.InverseInto(dst); err == nil {
		t.Fatal("expected an error inverting a singular matrix, got nil")
	}
}

func TestLUAbsDetSingularMatrixIsZero(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})

	var lu LU
	lu.Factorize(a)

	if got := lu.AbsDet(); math.Abs(got) > 1e-9 {
		t.Errorf("AbsDet() = %v, want ~0 for a singular matrix", got)
	}
}
