package linearica

import (
	"context"
	"log"

	"github.com/parica/linearica/internal/objective"
	"github.com/parica/linearica/internal/solver"
	"github.com/parica/linearica/internal/whiten"
)

// Direction selects the optimizer's search-direction strategy; re-exported
// from internal/solver so callers never need to import it directly.
type Direction = solver.Direction

const (
	// QuasiNewton selects gonum's BFGS method (the default).
	QuasiNewton = solver.QuasiNewton
	// NonlinearCG selects gonum's nonlinear conjugate-gradient method.
	NonlinearCG = solver.NonlinearCG
)

// Options configures a LinearICA run.
type Options struct {
	// Direction selects quasi-Newton (default) or nonlinear CG.
	Direction Direction
	// MaxIter bounds the optimizer's major iterations (default 100).
	MaxIter int
	// Verbosity gates logging: 0 silent, >=1 one line per major iteration
	// plus a status line when the optimizer stops without converging, >=2
	// also the per-channel mode/alpha switch on every evaluation.
	Verbosity int
	// Logger receives verbose output; defaults to log.Default() writing to
	// os.Stderr when nil.
	Logger *log.Logger
	// EpsDet floors |det(W)| below which the objective returns +Inf.
	EpsDet float64
	// EpsWhiten floors the covariance eigenvalues accepted during
	// whitening; at or below it, whitening fails.
	EpsWhiten float64
	// StrictConvergence, when true, makes LinearICA return a
	// types.ErrConvergence instead of silently returning the best-seen
	// theta when the optimizer exhausts its iteration budget.
	StrictConvergence bool
	// Context, if set, is threaded into the objective functor so a caller
	// can cooperatively cancel between evaluations.
	Context context.Context
}

// DefaultOptions returns the standard defaults: quasi-Newton direction,
// 100 major iterations, silent, ε_det = 1e-12, ε_whiten = 1e-10.
func DefaultOptions() Options {
	return Options{
		Direction: QuasiNewton,
		MaxIter:   solver.DefaultMaxIter,
		EpsDet:    objective.DefaultEpsDet,
		EpsWhiten: whiten.DefaultEpsWhiten,
	}
}

func (o Options) solverOptions() solver.Options {
	return solver.Options{
		Direction: o.Direction,
		MaxIter:   o.MaxIter,
		Verbosity: o.Verbosity,
		Logger:    o.Logger,
		Context:   o.Context,
	}
}
