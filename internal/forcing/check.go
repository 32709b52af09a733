package forcing

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// DefaultCheckStep is the finite-difference step used by Check when step <= 0.
const DefaultCheckStep = 1e-4

// forward2 is the second-order one-sided first derivative
// (-3f(x) + 4f(x+h) - f(x+2h)) / 2h.
var forward2 = fd.Formula{
	Stencil:    []fd.Point{{Loc: 0, Coeff: -1.5}, {Loc: 1, Coeff: 2}, {Loc: 2, Coeff: -0.5}},
	Derivative: 1,
	Step:       1e-4,
}

// Residual compares one analytic derivative with its numeric estimate.
type Residual struct {
	T        float64
	Order    int
	Analytic float64
	Numeric  float64
}

func (r Residual) Err() float64 {
	return math.Abs(r.Analytic - r.Numeric)
}

// Check differentiates F, F' and F″ numerically with a central formula and
// compares the result with F', F″ and F‴ at every t in ts.
//
// Points closer than step to t = 0 use a one-sided second-order formula so
// the stencil never crosses into the t < 0 branch.
func Check(p Profile, ts []float64, step float64) []Residual {
	if step <= 0 {
		step = DefaultCheckStep
	}

	lower := []func(float64) float64{p.Value, p.First, p.Second}
	upper := []func(float64) float64{p.First, p.Second, p.Third}

	out := make([]Residual, 0, len(ts)*len(lower))
	for _, t := range ts {
		settings := &fd.Settings{Formula: fd.Central, Step: step}
		if t < step {
			settings.Formula = forward2
		}
		for order := range lower {
			out = append(out, Residual{
				T:        t,
				Order:    order + 1,
				Analytic: upper[order](t),
				Numeric:  fd.Derivative(lower[order], t, settings),
			})
		}
	}
	return out
}

// MaxError returns the largest absolute residual.
func MaxError(rs []Residual) float64 {
	worst := 0.0
	for _, r := range rs {
		worst = math.Max(worst, r.Err())
	}
	return worst
}
