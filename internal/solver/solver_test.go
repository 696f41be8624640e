package solver

import (
	"log"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/parica/linearica/internal/density"
	"github.com/parica/linearica/internal/objective"
)

func mixedSources(c, n int) *mat.Dense {
	x := mat.NewDense(c, n, nil)
	for i := 0; i < c; i++ {
		row := make([]float64, n)
		for f := 0; f < n; f++ {
			row[f] = math.Sin(float64(f)*0.04*float64(i+1)) + 0.2*float64((f*(i+2))%7)
		}
		x.SetRow(i, row)
	}
	return x
}

func TestRunConverges(t *testing.T) {
	const c, n = 2, 300
	x := mixedSources(c, n)
	fn := objective.New(x, density.NewGeneralizedGaussian(), objective.DefaultEpsDet)

	opts := DefaultOptions()
	opts.MaxIter = 200

	theta0 := objective.IdentityTheta(c)
	result, err := Run(fn, theta0, opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Theta) != objective.ThetaLen(c) {
		t.Fatalf("result theta length = %d, want %d", len(result.Theta), objective.ThetaLen(c))
	}
	for i, v := range result.Theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("result.Theta[%d] not finite: %v", i, v)
		}
	}
}

func TestRunRespectsMaxIter(t *testing.T) {
	const c, n = 2, 200
	x := mixedSources(c, n)
	fn := objective.New(x, density.NewGeneralizedGaussian(), objective.DefaultEpsDet)

	opts := DefaultOptions()
	opts.MaxIter = 1

	theta0 := objective.IdentityTheta(c)
	result, err := Run(fn, theta0, opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Stats.MajorIterations > 2 {
		t.Errorf("expected the run to stop near the 1-iteration budget, got %d major iterations", result.Stats.MajorIterations)
	}
}

// TestRunVerbosity2LogsPerChannelMode checks that Verbosity >= 2 makes Run
// wire a logger into the functor so each evaluation traces its per-channel
// mode/alpha switch, not just one line per major iteration.
func TestRunVerbosity2LogsPerChannelMode(t *testing.T) {
	const c, n = 2, 200
	x := mixedSources(c, n)
	fn := objective.New(x, density.NewGeneralizedGaussian(), objective.DefaultEpsDet)

	var buf strings.Builder
	opts := DefaultOptions()
	opts.MaxIter = 5
	opts.Verbosity = 2
	opts.Logger = log.New(&buf, "", 0)

	theta0 := objective.IdentityTheta(c)
	if _, err := Run(fn, theta0, opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !strings.Contains(buf.String(), "objective: channel 0 mode=") {
		t.Errorf("expected per-channel mode trace in log output, got:\n%s", buf.String())
	}
}

func TestRunNonlinearCG(t *testing.T) {
	const c, n = 2, 300
	x := mixedSources(c, n)
	fn := objective.New(x, density.NewGeneralizedGaussian(), objective.DefaultEpsDet)

	opts := DefaultOptions()
	opts.Direction = NonlinearCG
	opts.MaxIter = 200

	theta0 := objective.IdentityTheta(c)
	result, err := Run(fn, theta0, opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, v := range result.Theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("result.Theta[%d] not finite: %v", i, v)
		}
	}
}
