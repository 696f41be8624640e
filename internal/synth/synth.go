// Package synth generates artificial test fixtures for package tests:
// the mixed-sinusoid source signal from original_source's
// artificial_sources.cpp, a random linear mixing matrix, and Laplace/Uniform
// samplers for exercising the objective functor's kurtosis-driven density
// switch. It is never imported outside of _test.go files.
package synth

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MixedSinusoidSources builds the C=4, T=20 four-channel artificial source
// matrix from original_source/examples/cpp/artificial_sources.cpp:
//
//	t = f/(N-1)*T - T/2
//	s0 = sin(3t) + cos(6t)
//	s1 = cos(10t)
//	s2 = sin(5t)
//	s3 = sin(t^2)
func MixedSinusoidSources(n int) *mat.Dense {
	const c = 4
	const span = 20.0
	s := mat.NewDense(c, n, nil)
	for f := 0; f < n; f++ {
		t := float64(f)/float64(n-1)*span - span/2
		s.Set(0, f, math.Sin(3*t)+math.Cos(6*t))
		s.Set(1, f, math.Cos(10*t))
		s.Set(2, f, math.Sin(5*t))
		s.Set(3, f, math.Sin(t*t))
	}
	return s
}

// RandomMixingMatrix returns a C x C matrix of independent uniform(0,1)
// entries, the mixing matrix shape artificial_sources.cpp builds via
// rand()/RAND_MAX. rng must be seeded by the caller for reproducibility.
func RandomMixingMatrix(c int, rng distuv.Uniform) *mat.Dense {
	a := mat.NewDense(c, c, nil)
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			a.Set(i, j, rng.Rand())
		}
	}
	return a
}

// Mix returns mixing * sources (C x C times C x N), the observed data an ICA
// algorithm is handed.
func Mix(mixing, sources *mat.Dense) *mat.Dense {
	c, n := sources.Dims()
	out := mat.NewDense(c, n, nil)
	out.Mul(mixing, sources)
	return out
}

// SuperGaussianRow samples n iid Laplace(0, scale) values: a canonical
// super-Gaussian (heavy-tailed, positive excess kurtosis) source.
func SuperGaussianRow(n int, scale float64, rng distuv.Laplace) []float64 {
	rng.Mu = 0
	rng.Scale = scale
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Rand()
	}
	return out
}

// SubGaussianRow samples n iid Uniform(rng.Min, rng.Max) values: a canonical
// sub-Gaussian (negative excess kurtosis) source.
func SubGaussianRow(n int, rng distuv.Uniform) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Rand()
	}
	return out
}
