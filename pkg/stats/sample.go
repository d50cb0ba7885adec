// Package stats computes descriptive statistics over numeric samples and
// reports them as text lines.
//
// A Sample is built from a heterogeneous input collection: only numeric
// entries are kept, then sorted ascending. Summary derives the mean, median,
// floor-index quartiles, population variance and standard deviation from it.
// Aggregator writes the statistics a Request asks for, in request order, and
// Collector does the same over named series kept in a backend store.
package stats

import (
	"cmp"
	"math"
	"slices"
)

// Sample is a numeric sample set, sorted ascending.
type Sample []float64

// NewSample keeps the numeric entries of inputs and sorts them ascending.
// Every integer kind, float32 and float64 is numeric. Anything else,
// including bool and NaN, is discarded.
func NewSample(inputs ...any) Sample {
	sample := make(Sample, 0, len(inputs))

	for _, input := range inputs {
		if v, ok := toFloat(input); ok {
			sample = append(sample, v)
		}
	}

	slices.Sort(sample)

	return sample
}

// FromFloats builds a Sample from raw observations. The input is not modified.
func FromFloats(values []float64) Sample {
	sample := make(Sample, 0, len(values))

	for _, v := range values {
		if !math.IsNaN(v) {
			sample = append(sample, v)
		}
	}

	slices.Sort(sample)

	return sample
}

// integerMedian reports whether the numeric entries of inputs have a single
// middle entry, and that entry was given as an integer. Equal values keep
// their input order.
func integerMedian(inputs ...any) bool {
	type entry struct {
		value   float64
		integer bool
	}

	entries := make([]entry, 0, len(inputs))

	for _, input := range inputs {
		if v, ok := toFloat(input); ok {
			_, isFloat32 := input.(float32)
			_, isFloat64 := input.(float64)
			entries = append(entries, entry{value: v, integer: !isFloat32 && !isFloat64})
		}
	}

	if len(entries)%2 == 0 {
		return false
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.value, b.value) })

	return entries[len(entries)/2].integer
}

// Len returns the number of values in the sample.
func (s Sample) Len() int {
	return len(s)
}

// toFloat converts a numeric value to float64.
func toFloat(input any) (float64, bool) {
	var v float64

	switch n := input.(type) {
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case uintptr:
		v = float64(n)
	case float32:
		v = float64(n)
	case float64:
		v = n
	default:
		return 0, false
	}

	if math.IsNaN(v) {
		return 0, false
	}

	return v, true
}
