package physics

import (
	"fmt"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
)

const (
	DefaultT  = 0.1
	DefaultR  = 1.5
	DefaultK1 = 2.0
	DefaultK2 = 1.0
	DefaultK3 = 0.5
)

// Params are the loop constants: time constant T, feedback coefficient R and
// the link gains K1..K3.
type Params struct {
	T  float64
	R  float64
	K1 float64
	K2 float64
	K3 float64
}

func DefaultParams() Params {
	return Params{T: DefaultT, R: DefaultR, K1: DefaultK1, K2: DefaultK2, K3: DefaultK3}
}

// Coefficients are the composite constants of the left-hand side, reported
// for diagnostics only.
type Coefficients struct {
	C1 float64 // T·k1·k2·k3, multiplies x''
	C2 float64 // 1 + r·T·k2, multiplies x'''
	C3 float64 // T, multiplies x''''
}

func (p Params) Coefficients() Coefficients {
	return Coefficients{
		C1: p.T * p.K1 * p.K2 * p.K3,
		C2: 1 + p.R*p.T*p.K2,
		C3: p.T,
	}
}

type Engine struct {
	Params
	Profile forcing.Profile
}

// NewEngine returns an engine driven by profile. A nil profile means no
// disturbance.
func NewEngine(p Params, profile forcing.Profile) *Engine {
	if profile == nil {
		profile = forcing.Zero{}
	}
	return &Engine{Params: p, Profile: profile}
}

// Derive returns {x', x″, x‴, x⁗} at (t, y). x and x' do not enter the
// dynamic row: the loop equation has no x or x' terms.
//
// T is checked on every call; T == 0 yields dynamo.ErrSingularSystem.
func (e *Engine) Derive(t float64, y dynamo.State) (dynamo.State, error) {
	if e.T == 0 {
		return dynamo.State{}, dynamo.ErrSingularSystem
	}

	c := e.Coefficients()
	fdd := e.Profile.Second(t)
	fddd := e.Profile.Third(t)

	x4 := (e.K1*e.T*fddd + (e.K1+e.R*e.T*e.K2)*fdd - c.C2*y[3] - c.C1*y[2]) / e.T

	return dynamo.State{y[1], y[2], y[3], x4}, nil
}

// Forcing returns F(t) of the configured profile.
func (e *Engine) Forcing(t float64) float64 {
	return e.Profile.Value(t)
}

// GetParams implements dynamo.Configurable
func (e *Engine) GetParams() map[string]float64 {
	return map[string]float64{
		"t":  e.T,
		"r":  e.R,
		"k1": e.K1,
		"k2": e.K2,
		"k3": e.K3,
	}
}

// SetParam implements dynamo.Configurable
func (e *Engine) SetParam(name string, value float64) error {
	switch name {
	case "t":
		e.T = value
	case "r":
		e.R = value
	case "k1":
		e.K1 = value
	case "k2":
		e.K2 = value
	case "k3":
		e.K3 = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// Clone returns an independent engine sharing the (immutable) profile.
func (e *Engine) Clone() *Engine {
	c := *e
	return &c
}
