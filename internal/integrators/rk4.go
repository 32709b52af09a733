package integrators

import "github.com/san-kum/enginesim/internal/dynamo"

// RK4 is the classical explicit four-stage Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (dynamo.State, error) {
	return RK4Step(f, t, y, h)
}

// RK4Step advances y from t by h:
//
//	k1 = f(t, y)
//	k2 = f(t + h/2, y + h/2·k1)
//	k3 = f(t + h/2, y + h/2·k2)
//	k4 = f(t + h, y + h·k3)
//	y' = y + h/6·(k1 + 2k2 + 2k3 + k4)
//
// State is a value type, so y and the stages never alias. The first error
// returned by f aborts the step.
func RK4Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (dynamo.State, error) {
	half := h / 2

	k1, err := f(t, y)
	if err != nil {
		return y, err
	}

	k2, err := f(t+half, y.AddScaled(half, k1))
	if err != nil {
		return y, err
	}

	k3, err := f(t+half, y.AddScaled(half, k2))
	if err != nil {
		return y, err
	}

	k4, err := f(t+h, y.AddScaled(h, k3))
	if err != nil {
		return y, err
	}

	var next dynamo.State
	h6 := h / 6
	for i := range next {
		next[i] = y[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next, nil
}
