package synth

import (
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestMixedSinusoidSourcesShape(t *testing.T) {
	const n = 100
	s := MixedSinusoidSources(n)
	c, got := s.Dims()
	if c != 4 || got != n {
		t.Fatalf("dims = %dx%d, want 4x%d", c, got, n)
	}
}

func TestMixAndRandomMixingMatrix(t *testing.T) {
	const n = 50
	rng := distuv.Uniform{Min: 0, Max: 1}

	sources := MixedSinusoidSources(n)
	mixing := RandomMixingMatrix(4, rng)
	observed := Mix(mixing, sources)

	c, got := observed.Dims()
	if c != 4 || got != n {
		t.Fatalf("observed dims = %dx%d, want 4x%d", c, got, n)
	}
}

func TestSuperAndSubGaussianRows(t *testing.T) {
	const n = 200
	laplace := distuv.Laplace{Mu: 0, Scale: 1}
	uniform := distuv.Uniform{Min: -1, Max: 1}

	row := SuperGaussianRow(n, 1, laplace)
	if len(row) != n {
		t.Fatalf("SuperGaussianRow length = %d, want %d", len(row), n)
	}

	row2 := SubGaussianRow(n, uniform)
	if len(row2) != n {
		t.Fatalf("SubGaussianRow length = %d, want %d", len(row2), n)
	}
}
