package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	RMS    float64
}

// Describe summarises a column. StdDev is the sample standard deviation and
// is 0 for a single value.
func Describe(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, ErrNoData
	}

	s := Stats{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		RMS:  math.Sqrt(floats.Dot(values, values) / float64(len(values))),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s, nil
}
