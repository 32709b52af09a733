package dynamo

import (
	"fmt"
	"math"
)

// Order is the order of the governing equation and the length of State.
const Order = 4

// State holds {x, x', x″, x‴} at one instant. The same shape carries the
// derivative vector {x', x″, x‴, x⁗}.
type State [Order]float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	for i := range s {
		s[i] += other[i]
	}
	return s
}

func (s State) Scale(factor float64) State {
	for i := range s {
		s[i] *= factor
	}
	return s
}

// AddScaled returns s + factor*other.
func (s State) AddScaled(factor float64, other State) State {
	for i := range s {
		s[i] += factor * other[i]
	}
	return s
}

func (s State) String() string {
	return fmt.Sprintf("[x=%g x'=%g x''=%g x'''=%g]", s[0], s[1], s[2], s[3])
}

// DerivativeFunc evaluates dY/dt at (t, y). Implementations must be pure.
type DerivativeFunc func(t float64, y State) (State, error)

// System is anything with a right-hand side.
type System interface {
	Derive(t float64, y State) (State, error)
}

// Model is a System driven by a scalar forcing input.
type Model interface {
	System
	Forcing(t float64) float64
}

type Integrator interface {
	Name() string
	Step(f DerivativeFunc, t float64, y State, h float64) (State, error)
}

// Sample is one row of a trajectory: the state at T, the derivative vector at
// (T, State) and the forcing value F(T).
type Sample struct {
	T          float64
	State      State
	Derivative State
	Forcing    float64
}

// Fourth returns x⁗ for the sample.
func (s Sample) Fourth() float64 { return s.Derivative[3] }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
