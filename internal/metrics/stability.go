package metrics

import (
	"math"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// Stability is the fraction of rows whose state is finite and inside ±bound
// in every component. It also remembers when the first bad row appeared.
type Stability struct {
	bound    float64
	bad      int
	rows     int
	firstBad float64
}

func NewStability(bound float64) *Stability {
	return &Stability{bound: bound, firstBad: math.NaN()}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) inBounds(st dynamo.State) bool {
	if !st.IsValid() {
		return false
	}
	for _, v := range st {
		if math.Abs(v) > s.bound {
			return false
		}
	}
	return true
}

func (s *Stability) Observe(smp dynamo.Sample) {
	s.rows++
	if s.inBounds(smp.State) {
		return
	}
	if s.bad == 0 {
		s.firstBad = smp.T
	}
	s.bad++
}

// Value is 1 for an empty or fully bounded run.
func (s *Stability) Value() float64 {
	if s.rows == 0 {
		return 1
	}
	return float64(s.rows-s.bad) / float64(s.rows)
}

// FirstViolation returns the time of the first out-of-bound row, or NaN.
func (s *Stability) FirstViolation() float64 { return s.firstBad }

func (s *Stability) Reset() {
	s.bad, s.rows = 0, 0
	s.firstBad = math.NaN()
}
