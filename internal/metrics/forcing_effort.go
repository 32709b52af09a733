package metrics

import (
	"math"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// ForcingEffort is the mean |F| over the run.
type ForcingEffort struct {
	sum     float64
	samples int
}

func NewForcingEffort() *ForcingEffort {
	return &ForcingEffort{}
}

func (f *ForcingEffort) Name() string { return "forcing_effort" }

func (f *ForcingEffort) Observe(s dynamo.Sample) {
	f.sum += math.Abs(s.Forcing)
	f.samples++
}

func (f *ForcingEffort) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.sum / float64(f.samples)
}

func (f *ForcingEffort) Reset() {
	f.sum = 0
	f.samples = 0
}
