// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// WrapInterval wraps value around interval so that it lies in
// [interval.Min, interval.Max)
func WrapInterval(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	value = math.Mod(value-interval.Min, width)
	if value < 0 {
		value += width
	}
	return value + interval.Min
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		if values[i] > max {
			max = values[i]
			indices = []int{i}
		} else if values[i] == max {
			indices = append(indices, i)
		}
	}
	return
}

// Argmax returns the index of the first maximal value in values.
func Argmax(values []float64) int {
	return floats.MaxIdx(values)
}

// RowMax returns the maximum of each row of a row-major matrix with
// the given number of columns.
func RowMax(values []float64, cols int) []float64 {
	rows := len(values) / cols
	max := make([]float64, rows)
	for i := 0; i < rows; i++ {
		max[i] = floats.Max(values[i*cols : (i+1)*cols])
	}
	return max
}

// TailMean returns the arithmetic mean of the last n values, or of all
// values if fewer than n exist. The mean of no values is 0.
func TailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0.0
	}
	start := len(values) - n
	if start < 0 {
		start = 0
	}
	return stat.Mean(values[start:], nil)
}
