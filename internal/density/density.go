// Package density implements the per-channel source-density kernels: phi
// (score), dphi (score derivative), and mean-log-density evaluators, each
// available as a scalar fallback and a 4-lane-unrolled backend dispatched
// once at construction from a CPU capability probe.
//
// Two models are provided: generalizedgaussian (the |z|^α family the
// objective functor's analytic gradient is built on, and this module's
// default) and sejnowski (the tanh-based infomax alternative). Both satisfy
// the same Model interface so either can be plugged into the objective
// functor. See DESIGN.md for why generalized-Gaussian is the default.
package density

import "github.com/klauspost/cpuid/v2"

// Mode selects which of the two per-channel density branches a kernel
// evaluates. It doubles as a signs[c] ∈ {+1, -1} vocabulary: SuperGaussian
// channels get signs[c] = +1, SubGaussian get -1.
type Mode int8

const (
	// SuperGaussian marks a channel whose kurtosis proxy is non-negative
	// (heavier-tailed than Gaussian); alpha_super = 1 in the
	// generalized-Gaussian model.
	SuperGaussian Mode = 1
	// SubGaussian marks a channel whose kurtosis proxy is negative
	// (lighter-tailed than Gaussian); alpha_sub = 4 in the
	// generalized-Gaussian model.
	SubGaussian Mode = -1
)

// ModeFromKurtosis implements the per-channel mode switch: kurt < 0 selects
// the sub-Gaussian branch, kurt >= 0 selects super-Gaussian.
func ModeFromKurtosis(kurtosis float64) Mode {
	if kurtosis < 0 {
		return SubGaussian
	}
	return SuperGaussian
}

// String renders a Mode for log output; verbosity >= 2 traces rely on this
// reading as a label instead of a raw +1/-1 sign.
func (m Mode) String() string {
	if m == SubGaussian {
		return "SubGaussian"
	}
	return "SuperGaussian"
}

// Model is the density-capability contract every backend implements: phi,
// dphi, and mean_logp, each vectorizable over a single channel's frames. z
// is the channel's pre-activation tile (bias already added by the caller);
// mode selects the super-/sub-Gaussian branch for that channel.
type Model interface {
	// Phi writes the score function phi(z) into out. len(out) must equal
	// len(z).
	Phi(z []float64, mode Mode, out []float64)
	// DPhi writes the score derivative dphi(z) into out. len(out) must
	// equal len(z).
	DPhi(z []float64, mode Mode, out []float64)
	// MeanLogP returns (1/len(z)) * sum(log p(z[i])) under the model's
	// density, accumulated in float64 regardless of the nominal working
	// precision; no single-precision intermediate accumulation path is
	// implemented.
	MeanLogP(z []float64, mode Mode) float64
}

// hasFastLanes reports whether the runtime CPU offers the wide integer
// SIMD level this package treats as "4-lane capable" (the portable
// equivalent of the reference's HW_SSE3 probe). It is evaluated once per
// model constructor call; the model caches the result and never re-reads
// cpuid.CPU per kernel call, so the dispatch flag is immutable after
// construction and safe for concurrent read.
func hasFastLanes() bool {
	return cpuid.CPU.X64Level() >= 2
}
