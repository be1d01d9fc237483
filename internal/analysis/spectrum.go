package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k|^2 for k in [1, n/2] of the mean-removed series.
// The DC bin is dropped.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 4 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, n/2)
	for k := range ps {
		a := cmplx.Abs(coeffs[k+1])
		ps[k] = a * a
	}
	return ps
}

// DominantPeriod is the period, in samples, of the strongest non-DC
// component. It returns 0 for a flat or too short series.
func DominantPeriod(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, bestK := 0.0, -1
	for k, p := range ps {
		if p > best {
			best, bestK = p, k
		}
	}
	if bestK < 0 {
		return 0
	}
	return float64(len(data)) / float64(bestK+1)
}

// PeakRatio is the strongest bin divided by the mean bin. A pure tone scores
// close to n/2; white noise stays in single digits.
func PeakRatio(data []float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) == 0 {
		return 0
	}
	sum, peak := 0.0, 0.0
	for _, p := range ps {
		sum += p
		peak = max(peak, p)
	}
	if sum == 0 {
		return 0
	}
	return peak / (sum / float64(len(ps)))
}
