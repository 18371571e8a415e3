// Package analysis provides frequency analysis of sampled simulation series.
//
// The typical use is period detection on an orbit trace: sample one position
// component at a fixed simulated interval, then ask for the dominant period:
//
//	period := analysis.DominantPeriod(samples, sampleDt)
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// samples. The mean is removed and the series is zero-padded to a power of
// two, so bin k maps to frequency k/(2*len(result)*dt).
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	n := 1
	for n < len(samples) {
		n <<= 1
	}
	padded := make([]float64, n)
	for i, v := range samples {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in a
// uniformly sampled series, refined by parabolic interpolation around the
// peak bin. dt is the sample spacing; the result is in the same unit.
// Returns 0 when the series is too short or carries no oscillation.
func DominantPeriod(samples []float64, dt float64) float64 {
	if len(samples) < 4 || dt <= 0 {
		return 0
	}

	ps := PowerSpectrum(samples)
	if len(ps) < 2 {
		return 0
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0
	}

	shift := 0.0
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			shift = 0.5 * (a - c) / den
		}
	}

	freq := (float64(peak) + shift) / (float64(2*len(ps)) * dt)
	if freq <= 0 {
		return 0
	}
	return 1 / freq
}
