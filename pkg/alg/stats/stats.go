// Package stats provides the descriptive statistics used by the histogram engine.
// All standard deviation calculations use population stddev (÷n, not ÷(n−1)).
package stats

import (
	"cmp"
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice. The result is finite for finite values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	count := float64(len(values))

	var sum float64

	for _, v := range values {
		sum += v
	}

	if IsFinite(sum) {
		return sum / count
	}

	// The running sum overflowed; average pre-divided terms instead.
	var mean float64

	for _, v := range values {
		mean += v / count
	}

	return mean
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
// Callers must drop NaN values first. Returns (0, 0) for an empty slice.
// Both results are finite for finite values, however large.
func MeanStdDev(values []float64) (mean, stddev float64) {
	count := len(values)
	if count == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sumSq float64

	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	if IsFinite(sumSq) {
		return mean, math.Sqrt(sumSq / float64(count))
	}

	return mean, scaledStdDev(values, mean)
}

// scaledStdDev computes the population stddev of values around mean with the
// deviations halved and normalized by the largest one, so no square overflows.
func scaledStdDev(values []float64, mean float64) float64 {
	var largest float64

	for _, v := range values {
		largest = max(largest, math.Abs(v/2-mean/2))
	}

	if largest == 0 {
		return 0
	}

	var sumSq float64

	for _, v := range values {
		ratio := (v/2 - mean/2) / largest
		sumSq += ratio * ratio
	}

	return 2 * largest * math.Sqrt(sumSq/float64(len(values)))
}

// PercentileMedian is the percentile threshold of the median.
const PercentileMedian = 0.5

// Percentile returns the p-th percentile of values using linear interpolation.
// p must be in [0, 1]. The input slice is not modified (a copy is sorted internally).
// Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	count := len(values)
	if count == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := p * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper || upper >= count {
		return sorted[lower]
	}

	frac := idx - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile of values.
// Returns 0 for an empty slice.
func Median(values []float64) float64 {
	return Percentile(values, PercentileMedian)
}

// Min returns the smallest element in values.
// Returns the zero value of T for an empty slice.
func Min[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	result := values[0]

	for _, v := range values[1:] {
		if v < result {
			result = v
		}
	}

	return result
}

// Max returns the largest element in values.
// Returns the zero value of T for an empty slice.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	result := values[0]

	for _, v := range values[1:] {
		if v > result {
			result = v
		}
	}

	return result
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite returns a new slice holding the finite values of values in their
// original order. NaN marks an absent sample; infinities cannot be binned.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if IsFinite(v) {
			out = append(out, v)
		}
	}

	return out
}

// sqrt2Pi is √(2π), the normalization term of the Gaussian density.
var sqrt2Pi = math.Sqrt(2 * math.Pi)

// NormalPDF returns the probability density of the normal distribution with
// the given mean and standard deviation at x.
// The result is undefined (Inf or NaN) when stddev is zero.
func NormalPDF(x, mean, stddev float64) float64 {
	// Halving keeps x-mean finite across the whole float64 range.
	z := 2 * ((x/2 - mean/2) / stddev)

	return math.Exp(-(z*z)/2) / stddev / sqrt2Pi
}

// Summary describes a set of finite samples.
type Summary struct {
	Count  int     `json:"count"   yaml:"count"`
	Mean   float64 `json:"mean"    yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min"     yaml:"min"`
	Max    float64 `json:"max"     yaml:"max"`
	Median float64 `json:"median"  yaml:"median"`
}

// Summarize computes a Summary over values, which must already be finite.
// Returns the zero Summary for an empty slice.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	mean, stddev := MeanStdDev(values)

	return Summary{
		Count:  len(values),
		Mean:   mean,
		StdDev: stddev,
		Min:    Min(values),
		Max:    Max(values),
		Median: Median(values),
	}
}
