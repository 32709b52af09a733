package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// PowerSpectrum returns the one-sided power spectrum of values sampled every
// dt seconds. The mean is removed first so the DC bin reflects only drift.
func PowerSpectrum(values []float64, dt float64) (Spectrum, error) {
	n := len(values)
	if n < 2 || dt <= 0 {
		return Spectrum{}, ErrNoData
	}

	mean := stat.Mean(values, nil)
	centred := make([]float64, n)
	for i, v := range values {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)

	bins := n/2 + 1
	sp := Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		mag := cmplx.Abs(coeffs[k])
		sp.Freqs[k] = float64(k) / (float64(n) * dt)
		sp.Power[k] = mag * mag / float64(n)
	}
	return sp, nil
}

// Dominant returns the frequency of the strongest non-DC bin.
func (s Spectrum) Dominant() float64 {
	best := 0
	for k := 1; k < len(s.Power); k++ {
		if best == 0 || s.Power[k] > s.Power[best] {
			best = k
		}
	}
	if best == 0 {
		return 0
	}
	return s.Freqs[best]
}
