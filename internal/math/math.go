// SPDX-License-Identifier: Apache-2.0

package math

import (
	"math"
	"sort"
)

// Average calculates the average of a slice of float64 values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// StandardDeviation calculates the sample standard deviation of a slice of
// float64 values using Bessel's correction (dividing by n-1).
func StandardDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Average(values)

	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	variance := sumSquaredDiff / float64(len(values)-1)

	return math.Sqrt(variance)
}

// Percentile calculates the given percentile (in [0,1]) of a slice of float64
// values, using linear interpolation between the two closest ranks.
func Percentile(values []float64, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := percentile * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartiles returns the first and third quartile of the values on input.
func Quartiles(values []float64) (q1, q3 float64) {
	return Percentile(values, 0.25), Percentile(values, 0.75)
}

// Median calculates the median of a slice of float64 values.
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// MostFrequent returns the most frequent value in the slice, breaking ties by
// first occurrence. The second return value is false when the slice is empty.
func MostFrequent[T comparable](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}

	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	maxCount := 0
	for _, count := range counts {
		if count > maxCount {
			maxCount = count
		}
	}

	// scan in input order so ties resolve to the earliest occurrence
	for _, v := range values {
		if counts[v] == maxCount {
			return v, true
		}
	}
	return zero, false
}
