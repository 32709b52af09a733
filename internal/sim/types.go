package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// MaxSteps bounds the grid so Steps always fits in an int.
const MaxSteps = 100_000_000

// Config bounds the time loop.
type Config struct {
	TStart float64
	TEnd   float64
	Step   float64

	// ValidateState stops the run with dynamo.ErrInvalidState when a step
	// produces NaN or Inf. Off by default: IEEE propagation is acceptable.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		TStart: 0,
		TEnd:   10,
		Step:   0.01,
	}
}

func (c Config) Validate() error {
	for name, v := range map[string]float64{"t_start": c.TStart, "t_end": c.TEnd, "step": c.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %f", dynamo.ErrInvalidConfig, name, v)
		}
	}
	if c.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %f", dynamo.ErrInvalidConfig, c.Step)
	}
	if c.TEnd < c.TStart {
		return fmt.Errorf("%w: t_end %f before t_start %f", dynamo.ErrInvalidConfig, c.TEnd, c.TStart)
	}
	if n := (c.TEnd - c.TStart) / c.Step; math.IsInf(n, 0) || math.IsNaN(n) || n > MaxSteps {
		return fmt.Errorf("%w: %g steps exceeds the limit of %d", dynamo.ErrInvalidConfig, n, MaxSteps)
	}
	return nil
}

// Steps returns the number of integration steps N; the run emits N+1 samples
// at t_i = TStart + i·Step.
func (c Config) Steps() int {
	return int(math.Floor((c.TEnd-c.TStart)/c.Step + 1e-9))
}

// TimeAt returns t_i.
func (c Config) TimeAt(i int) float64 {
	return c.TStart + float64(i)*c.Step
}

type Result struct {
	Samples    []dynamo.Sample
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last sample, or the zero sample for an empty result.
func (r *Result) Final() dynamo.Sample {
	if len(r.Samples) == 0 {
		return dynamo.Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Column extracts one series: 0..3 are x..x‴, 4 is x⁗, 5 is F.
func (r *Result) Column(idx int) []float64 {
	return Column(r.Samples, idx)
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.T
	}
	return out
}

// Column names, in output order after t.
var ColumnNames = []string{"x", "x_d", "x_dd", "x_ddd", "x_dddd", "F"}

func Column(samples []dynamo.Sample, idx int) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		switch {
		case idx < dynamo.Order:
			out[i] = s.State[idx]
		case idx == dynamo.Order:
			out[i] = s.Fourth()
		default:
			out[i] = s.Forcing
		}
	}
	return out
}
