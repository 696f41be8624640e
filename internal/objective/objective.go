// Package objective implements the negative log-likelihood functor that the
// optimizer minimizes over theta = (W, b): an evaluate(theta, want_grad) ->
// (H, grad?) call, translated from original_source's ica_functor.
package objective

import (
	"context"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/parica/linearica/internal/density"
	"github.com/parica/linearica/internal/linalg"
)

// DefaultEpsDet is the floor below which |det(W)| is treated as singular.
const DefaultEpsDet = 1e-12

// Functor owns all scratch needed to evaluate the objective at an arbitrary
// theta, allocated once and reused across every optimizer iteration.
type Functor struct {
	xWhite *mat.Dense // C x N, read-only
	c, n   int

	model  density.Model
	epsDet float64

	ctx       context.Context
	logger    *log.Logger
	verbosity int

	// scratch, all sized once in New and never reallocated
	w      *mat.Dense // C x C, view copied from theta each Evaluate
	z1     *mat.Dense // C x N
	phi    *mat.Dense // C x N
	phiZ1T *mat.Dense // C x C, phi * z1^T
	wInv   *mat.Dense // C x C
	m      *mat.Dense // C x C, I - (1/N) phi z1^T
	dw     *mat.Dense // C x C

	modes     []density.Mode
	dbias     []float64
	meanLogPs []float64
	rows      [][]float64 // C x N, one reusable row per channel
	phiRows   [][]float64 // C x N, one reusable row per channel
	lu        linalg.LU
}

// New constructs a Functor bound to xWhite (C x N, already whitened). model
// supplies phi/dphi/mean-log-density; the default entry point wires in
// density.NewGeneralizedGaussian(), but any density.Model can be plugged in.
func New(xWhite *mat.Dense, model density.Model, epsDet float64) *Functor {
	c, n := xWhite.Dims()
	rows := make([][]float64, c)
	phiRows := make([][]float64, c)
	for i := range rows {
		rows[i] = make([]float64, n)
		phiRows[i] = make([]float64, n)
	}
	return &Functor{
		xWhite:    xWhite,
		c:         c,
		n:         n,
		model:     model,
		epsDet:    epsDet,
		w:         mat.NewDense(c, c, nil),
		z1:        mat.NewDense(c, n, nil),
		phi:       mat.NewDense(c, n, nil),
		phiZ1T:    mat.NewDense(c, c, nil),
		wInv:      mat.NewDense(c, c, nil),
		m:         mat.NewDense(c, c, nil),
		dw:        mat.NewDense(c, c, nil),
		modes:     make([]density.Mode, c),
		dbias:     make([]float64, c),
		meanLogPs: make([]float64, c),
		rows:      rows,
		phiRows:   phiRows,
	}
}

// WithContext returns a shallow copy of f bound to ctx, so evaluation can be
// cooperatively cancelled between the GEMM step and the per-channel loops.
// A cancelled context makes Evaluate return +Inf, the same barrier
// vocabulary used for a singular W.
func (f *Functor) WithContext(ctx context.Context) *Functor {
	g := *f
	g.ctx = ctx
	return &g
}

// WithLogging returns a shallow copy of f that logs the per-channel
// mode/alpha switch on every Evaluate call once verbosity is at least 2.
func (f *Functor) WithLogging(logger *log.Logger, verbosity int) *Functor {
	g := *f
	g.logger = logger
	g.verbosity = verbosity
	return &g
}

func (f *Functor) cancelled() bool {
	if f.ctx == nil {
		return false
	}
	select {
	case <-f.ctx.Done():
		return true
	default:
		return false
	}
}

// unpack copies theta (length C*(C+1): C*C weights then C biases) into f.w
// and returns the bias slice view (theta[C*C:]).
func (f *Functor) unpack(theta []float64) (b []float64) {
	idx := 0
	for i := 0; i < f.c; i++ {
		for j := 0; j < f.c; j++ {
			f.w.Set(i, j, theta[idx])
			idx++
		}
	}
	return theta[idx:]
}

// Evaluate implements the calling convention gonum/optimize.Problem.Func and
// .Grad share: it returns the objective value at theta and, when grad is
// non-nil, fills it with the gradient in the same (W, b) layout as theta.
func (f *Functor) Evaluate(theta []float64, grad []float64) float64 {
	if f.cancelled() {
		return math.Inf(1)
	}

	b := f.unpack(theta)

	// z1 = W * X_white
	f.z1.Mul(f.w, f.xWhite)

	if f.cancelled() {
		return math.Inf(1)
	}

	// Channels are independent: each one reads its own slice of z1 and
	// writes only its own row/mode/meanLogP slot, so the per-channel
	// moments-and-density pass fans out across goroutines.
	density.ParallelChannels(f.c, func(c int) {
		row := f.rows[c]
		for j := 0; j < f.n; j++ {
			row[j] = f.z1.At(c, j) + b[c]
		}

		var m2, m4 float64
		for _, v := range row {
			v2 := v * v
			m2 += v2
			m4 += v2 * v2
		}
		m2 /= float64(f.n)
		m4 /= float64(f.n)
		kurtosis := m4/(m2*m2) - 3

		mode := density.ModeFromKurtosis(kurtosis)
		f.modes[c] = mode
		f.meanLogPs[c] = f.model.MeanLogP(row, mode)
	})

	if f.verbosity >= 2 && f.logger != nil {
		for c := 0; c < f.c; c++ {
			f.logger.Printf("objective: channel %d mode=%v alpha=%v", c, f.modes[c], density.Alpha(f.modes[c]))
		}
	}

	var meanLogPSum float64
	for c := 0; c < f.c; c++ {
		meanLogPSum += f.meanLogPs[c]
	}

	f.lu.Factorize(f.w)
	absDet := f.lu.AbsDet()
	if absDet < f.epsDet {
		return math.Inf(1)
	}

	hLogLikelihood := math.Log(absDet) + meanLogPSum
	value := -hLogLikelihood

	if grad == nil {
		return value
	}

	if f.cancelled() {
		return math.Inf(1)
	}

	// f.rows[c] already holds z1[c,:] + b[c] from the pass above; the
	// gradient pass only needs to run phi over it and reduce the bias term.
	density.ParallelChannels(f.c, func(c int) {
		mode := f.modes[c]
		row := f.rows[c]
		phiRow := f.phiRows[c]
		f.model.Phi(row, mode, phiRow)
		f.phi.SetRow(c, phiRow)

		var sum float64
		for _, v := range phiRow {
			sum += v
		}
		f.dbias[c] = sum / float64(f.n)
	})

	if err := f.lu.InverseInto(f.wInv); err != nil {
		return math.Inf(1)
	}

	// phiZ1T = phi * z1^T
	f.phiZ1T.Mul(f.phi, f.z1.T())

	// M = I - (1/N) * phiZ1T
	for i := 0; i < f.c; i++ {
		for j := 0; j < f.c; j++ {
			v := -f.phiZ1T.At(i, j) / float64(f.n)
			if i == j {
				v++
			}
			f.m.Set(i, j, v)
		}
	}

	// dweights = -M * W^-T
	f.dw.Mul(f.m, f.wInv.T())
	f.dw.Scale(-1, f.dw)

	idx := 0
	for i := 0; i < f.c; i++ {
		for j := 0; j < f.c; j++ {
			grad[idx] = f.dw.At(i, j)
			idx++
		}
	}
	for c := 0; c < f.c; c++ {
		grad[idx] = f.dbias[c]
		idx++
	}

	return value
}

// ThetaLen returns the length of the flattened (W, b) parameter vector for a
// C-channel problem: C*C weights plus C biases.
func ThetaLen(c int) int {
	return c*c + c
}

// IdentityTheta returns the canonical starting point for optimization:
// W = I_C, b = 0.
func IdentityTheta(c int) []float64 {
	theta := make([]float64, ThetaLen(c))
	for i := 0; i < c; i++ {
		theta[i*c+i] = 1
	}
	return theta
}
