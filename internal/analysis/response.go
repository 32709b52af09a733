package analysis

import (
	"errors"
	"math"
)

// DefaultSettlingBand is the ±2% settling criterion.
const DefaultSettlingBand = 0.02

var ErrNoData = errors.New("analysis: no data")

// ResponseInfo characterises one recorded column.
type ResponseInfo struct {
	Final     float64
	Peak      float64
	PeakTime  float64
	Overshoot float64 // percent above |Final|; 0 when Final is 0
	// SettlingTime is the first time after which the column stays within
	// band·scale of Final, scale being max(|Final|, |Peak|).
	SettlingTime float64
}

// Response computes peak and settling characteristics of values over times.
func Response(times, values []float64, band float64) (ResponseInfo, error) {
	if len(values) == 0 || len(times) != len(values) {
		return ResponseInfo{}, ErrNoData
	}
	if band <= 0 {
		band = DefaultSettlingBand
	}

	info := ResponseInfo{Final: values[len(values)-1]}
	for i, v := range values {
		if math.Abs(v) > math.Abs(info.Peak) {
			info.Peak = v
			info.PeakTime = times[i]
		}
	}

	if info.Final != 0 {
		info.Overshoot = math.Max(0, (math.Abs(info.Peak)-math.Abs(info.Final))/math.Abs(info.Final)*100)
	}

	tol := band * math.Max(math.Abs(info.Final), math.Abs(info.Peak))
	info.SettlingTime = times[0]
	for i := len(values) - 1; i >= 0; i-- {
		if math.Abs(values[i]-info.Final) > tol {
			info.SettlingTime = times[i+1]
			break
		}
	}
	return info, nil
}
