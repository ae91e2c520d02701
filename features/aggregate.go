package features

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Median returns the median of vals. NaN is returned for empty input rather
// than an error, since gaps are expected in sparse profile matrices.
func Median(vals []float64) float64 {
	m, err := stats.Median(vals)
	if err != nil {
		return math.NaN()
	}

	return m
}

// MAD returns the median absolute deviation of vals, the robust dispersion
// measure used to normalize feature values.
func MAD(vals []float64) float64 {
	m, err := stats.MedianAbsoluteDeviation(vals)
	if err != nil {
		return math.NaN()
	}

	return m
}

// NormalizeMAD centers vals on the reference median and scales by the
// reference MAD. A zero MAD leaves the centered values unscaled.
func NormalizeMAD(vals, reference []float64) []float64 {
	center := Median(reference)
	scale := MAD(reference)

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v - center
		if scale != 0 {
			out[i] /= scale
		}
	}

	return out
}
