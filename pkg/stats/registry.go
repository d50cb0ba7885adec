package stats

import (
	"maps"
	"math"
	"strconv"

	"github.com/hyp3rd/dodkit/types"
)

// Formatter renders one statistic of a summary.
type Formatter func(summary Summary) string

// Registry maps statistic names to their formatters.
type Registry struct {
	formatters map[types.Stat]Formatter
}

// getDefaultFormatters returns the formatters of the supported statistics.
func getDefaultFormatters() map[types.Stat]Formatter {
	return map[types.Stat]Formatter{
		types.StatMean:   func(s Summary) string { return formatFloat(s.Mean) },
		types.StatMedian: func(s Summary) string {
			if s.integerMedian {
				return strconv.FormatFloat(s.Median, 'f', 0, 64)
			}

			return formatFloat(s.Median)
		},
		types.StatQuartile: func(s Summary) string {
			return "[" + formatFloat(s.Q1) + ", " + formatFloat(s.Q3) + "]"
		},
		types.StatVariance: func(s Summary) string { return formatFloat(s.Variance) },
		types.StatStd:      func(s Summary) string { return formatFloat(s.Std) },
	}
}

// NewRegistry creates a registry with the supported statistics pre-registered.
func NewRegistry() *Registry {
	registry := NewEmptyRegistry()
	registry.RegisterMultiple(getDefaultFormatters())

	return registry
}

// NewEmptyRegistry creates a registry without formatters.
// This is useful for testing or when you want to register only specific statistics.
func NewEmptyRegistry() *Registry {
	return &Registry{
		formatters: make(map[types.Stat]Formatter),
	}
}

// Register registers or replaces the formatter of a statistic.
func (r *Registry) Register(stat types.Stat, formatter Formatter) {
	r.formatters[stat] = formatter
}

// RegisterMultiple registers a set of formatters.
func (r *Registry) RegisterMultiple(formatters map[types.Stat]Formatter) {
	maps.Copy(r.formatters, formatters)
}

// Format renders the named statistic. The boolean is false for unknown names.
func (r *Registry) Format(name string, summary Summary) (string, bool) {
	formatter, ok := r.formatters[types.Stat(name)]
	if !ok {
		return "", false
	}

	return formatter(summary), true
}

const (
	// fixedLow and fixedHigh bound the magnitudes printed in fixed notation.
	fixedLow  = 1e-4
	fixedHigh = 1e16
)

// formatFloat prints v in its shortest round-tripping form. Magnitudes in
// [1e-4, 1e16) use fixed notation with a ".0" kept on integral values, the
// others use exponent notation ("1e-05", "1e+16").
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); v != 0 && (abs < fixedLow || abs >= fixedHigh) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
