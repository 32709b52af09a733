package metrics

import (
	"math"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// integral accumulates ∫ g(x) dt over the sample grid with the trapezoid
// rule.
type integral struct {
	name    string
	g       func(float64) float64
	sum     float64
	prevT   float64
	prevG   float64
	samples int
}

func (m *integral) Name() string { return m.name }

func (m *integral) Observe(s dynamo.Sample) {
	v := m.g(s.State[0])
	if m.samples > 0 {
		m.sum += 0.5 * (m.prevG + v) * (s.T - m.prevT)
	}
	m.prevT = s.T
	m.prevG = v
	m.samples++
}

func (m *integral) Value() float64 { return m.sum }

func (m *integral) Reset() {
	m.sum = 0
	m.prevT = 0
	m.prevG = 0
	m.samples = 0
}

// NewISE returns the integral of squared deviation ∫ x² dt.
func NewISE() dynamo.Metric {
	return &integral{name: "ise", g: func(x float64) float64 { return x * x }}
}

// NewIAE returns the integral of absolute deviation ∫ |x| dt.
func NewIAE() dynamo.Metric {
	return &integral{name: "iae", g: math.Abs}
}
