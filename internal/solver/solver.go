// Package solver drives gonum's optimizer over the objective functor: it
// minimizes a value-and-gradient functor with a configurable search
// direction, an iteration budget, and a verbosity level.
package solver

import (
	"context"
	"log"

	"gonum.org/v1/gonum/optimize"

	"github.com/parica/linearica/internal/objective"
)

// Direction selects the optimizer's search-direction strategy.
type Direction int

const (
	// QuasiNewton selects gonum's BFGS method (the default).
	QuasiNewton Direction = iota
	// NonlinearCG selects gonum's nonlinear conjugate-gradient method.
	NonlinearCG
)

// DefaultMaxIter is the default maximum major-iteration budget.
const DefaultMaxIter = 100

// Options configures a solver run.
type Options struct {
	Direction Direction
	MaxIter   int
	Verbosity int
	Logger    *log.Logger
	Context   context.Context
}

// DefaultOptions returns the default solver configuration: quasi-Newton
// direction, 100 major iterations, silent.
func DefaultOptions() Options {
	return Options{
		Direction: QuasiNewton,
		MaxIter:   DefaultMaxIter,
	}
}

func (o Options) method() optimize.Method {
	switch o.Direction {
	case NonlinearCG:
		return &optimize.CG{}
	default:
		return &optimize.BFGS{}
	}
}

// Result carries the optimizer's outcome: the best-seen theta, whether the
// run converged, and the status gonum reported.
type Result struct {
	Theta     []float64
	Converged bool
	Status    optimize.Status
	Stats     optimize.Stats
}

// Run minimizes fn starting from theta0, returning the best theta found even
// when the iteration budget is exhausted: optimizer non-convergence is not
// treated as a fatal error by itself.
func Run(fn *objective.Functor, theta0 []float64, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	f := fn
	if opts.Context != nil {
		f = f.WithContext(opts.Context)
	}
	if opts.Verbosity >= 2 {
		f = f.WithLogging(logger, opts.Verbosity)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return f.Evaluate(x, nil)
		},
		Grad: func(grad, x []float64) {
			f.Evaluate(x, grad)
		},
	}

	settings := &optimize.Settings{
		MajorIterations: opts.MaxIter,
	}
	if opts.Verbosity > 0 {
		settings.Recorder = &verboseRecorder{logger: logger}
	}

	result, err := optimize.Minimize(problem, theta0, settings, opts.method())
	if err != nil {
		if result == nil || len(result.X) == 0 {
			return nil, err
		}
	}

	converged := result.Status == optimize.FunctionConvergence ||
		result.Status == optimize.GradientThreshold ||
		result.Status == optimize.FunctionThreshold ||
		result.Status == optimize.MethodConverge
	if !converged && opts.Verbosity > 0 {
		logger.Printf("solver: optimizer did not converge after %d major iterations (status: %v)",
			result.Stats.MajorIterations, result.Status)
	}

	return &Result{
		Theta:     result.X,
		Converged: converged,
		Status:    result.Status,
		Stats:     result.Stats,
	}, nil
}

// verboseRecorder implements optimize.Recorder, logging one line per major
// iteration when verbosity > 0, the idiomatic hook gonum exposes for this
// instead of hand-rolling an iteration callback.
type verboseRecorder struct {
	logger *log.Logger
}

func (r *verboseRecorder) Init() error {
	r.logger.Printf("solver: starting optimization")
	return nil
}

func (r *verboseRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op&optimize.MajorIteration == 0 {
		return nil
	}
	r.logger.Printf("solver: major iteration %d, f=%v", stats.MajorIterations, loc.F)
	return nil
}
