package metrics

import (
	"math"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// Peak tracks max |x| and when it happened.
type Peak struct {
	peak float64
	at   float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(s dynamo.Sample) {
	if v := math.Abs(s.State[0]); v > p.peak {
		p.peak = v
		p.at = s.T
	}
}

func (p *Peak) Value() float64 { return p.peak }

// Time returns the time of the peak.
func (p *Peak) Time() float64 { return p.at }

func (p *Peak) Reset() {
	p.peak = 0
	p.at = 0
}

// FinalValue reports x at the last observed sample.
type FinalValue struct {
	x float64
}

func NewFinalValue() *FinalValue { return &FinalValue{} }

func (f *FinalValue) Name() string            { return "final_x" }
func (f *FinalValue) Observe(s dynamo.Sample) { f.x = s.State[0] }
func (f *FinalValue) Value() float64          { return f.x }
func (f *FinalValue) Reset()                  { f.x = 0 }
