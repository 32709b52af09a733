package forcing

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	NameExponentialDecay  = "exponential_decay"
	NameDampedOscillation = "damped_oscillation"
	NameZero              = "zero"
)

// Defaults of the two reference disturbances.
const (
	DefaultDecayAmplitude = 10.0
	DefaultDecayAlpha     = 0.3

	DefaultOscAmplitude = 1.0
	DefaultOscAlpha     = 0.5
	DefaultOscOmega     = 3.0
)

var ErrUnknownProfile = errors.New("forcing: unknown profile")

// Profile is a smooth scalar input with analytic derivatives up to order 3.
type Profile interface {
	Name() string
	Value(t float64) float64
	First(t float64) float64
	Second(t float64) float64
	Third(t float64) float64
	Params() map[string]float64
}

// Spec selects and parameterizes a profile by name.
type Spec struct {
	Profile   string
	Amplitude float64
	Alpha     float64
	Omega     float64
}

// New builds the profile named by spec.Profile. An empty name selects the
// exponential decay.
func New(spec Spec) (Profile, error) {
	switch spec.Profile {
	case "", NameExponentialDecay:
		return NewExponentialDecay(spec.Amplitude, spec.Alpha), nil
	case NameDampedOscillation:
		return NewDampedOscillation(spec.Amplitude, spec.Alpha, spec.Omega), nil
	case NameZero:
		return Zero{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProfile, spec.Profile, Names())
	}
}

func Names() []string {
	names := []string{NameExponentialDecay, NameDampedOscillation, NameZero}
	sort.Strings(names)
	return names
}

// ExponentialDecay is F(t) = F0·exp(-αt). The n-th derivative is (-α)^n·F(t).
type ExponentialDecay struct {
	Amplitude float64
	Alpha     float64
}

func NewExponentialDecay(amplitude, alpha float64) *ExponentialDecay {
	return &ExponentialDecay{Amplitude: amplitude, Alpha: alpha}
}

func (e *ExponentialDecay) Name() string { return NameExponentialDecay }

func (e *ExponentialDecay) Value(t float64) float64 {
	if t < 0 {
		return 0
	}
	return e.Amplitude * math.Exp(-e.Alpha*t)
}

func (e *ExponentialDecay) First(t float64) float64 {
	return -e.Alpha * e.Value(t)
}

func (e *ExponentialDecay) Second(t float64) float64 {
	return e.Alpha * e.Alpha * e.Value(t)
}

func (e *ExponentialDecay) Third(t float64) float64 {
	return -e.Alpha * e.Alpha * e.Alpha * e.Value(t)
}

func (e *ExponentialDecay) Params() map[string]float64 {
	return map[string]float64{
		"amplitude": e.Amplitude,
		"alpha":     e.Alpha,
	}
}

// DampedOscillation is F(t) = A·exp(-αt)·sin(ωt).
//
//	F'   = A·e^(-αt)·[ω·cos(ωt) - α·sin(ωt)]
//	F''  = A·e^(-αt)·[(α²-ω²)·sin(ωt) - 2αω·cos(ωt)]
//	F''' = A·e^(-αt)·[(3αω²-α³)·sin(ωt) + (3α²ω-ω³)·cos(ωt)]
type DampedOscillation struct {
	Amplitude float64
	Alpha     float64
	Omega     float64
}

func NewDampedOscillation(amplitude, alpha, omega float64) *DampedOscillation {
	return &DampedOscillation{Amplitude: amplitude, Alpha: alpha, Omega: omega}
}

func (d *DampedOscillation) Name() string { return NameDampedOscillation }

func (d *DampedOscillation) envelope(t float64) float64 {
	return d.Amplitude * math.Exp(-d.Alpha*t)
}

func (d *DampedOscillation) Value(t float64) float64 {
	if t < 0 {
		return 0
	}
	return d.envelope(t) * math.Sin(d.Omega*t)
}

func (d *DampedOscillation) First(t float64) float64 {
	if t < 0 {
		return 0
	}
	s, c := math.Sincos(d.Omega * t)
	return d.envelope(t) * (d.Omega*c - d.Alpha*s)
}

func (d *DampedOscillation) Second(t float64) float64 {
	if t < 0 {
		return 0
	}
	a, w := d.Alpha, d.Omega
	s, c := math.Sincos(w * t)
	return d.envelope(t) * ((a*a-w*w)*s - 2*a*w*c)
}

func (d *DampedOscillation) Third(t float64) float64 {
	if t < 0 {
		return 0
	}
	a, w := d.Alpha, d.Omega
	a2, w2 := a*a, w*w
	s, c := math.Sincos(w * t)
	return d.envelope(t) * ((3*a*w2-a2*a)*s + (3*a2*w-w2*w)*c)
}

func (d *DampedOscillation) Params() map[string]float64 {
	return map[string]float64{
		"amplitude": d.Amplitude,
		"alpha":     d.Alpha,
		"omega":     d.Omega,
	}
}

// Zero is the undisturbed input.
type Zero struct{}

func (Zero) Name() string               { return NameZero }
func (Zero) Value(float64) float64      { return 0 }
func (Zero) First(float64) float64      { return 0 }
func (Zero) Second(float64) float64     { return 0 }
func (Zero) Third(float64) float64      { return 0 }
func (Zero) Params() map[string]float64 { return map[string]float64{} }
