package stats

import (
	"math"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/types"
)

// Summary holds the descriptive statistics of a non-empty sample.
type Summary struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Variance float64 `json:"var"`
	Std      float64 `json:"std"`

	// integerMedian is set when the median is a single middle entry given as an integer.
	integerMedian bool
}

// Quartile returns the first and third quartile pair.
func (s Summary) Quartile() [2]float64 {
	return [2]float64{s.Q1, s.Q3}
}

// Compute builds a Sample from inputs and summarizes it.
// It returns sentinel.ErrEmptySampleSet when inputs hold no numeric value.
func Compute(inputs ...any) (Summary, error) {
	summary, err := NewSample(inputs...).Summary()
	if err != nil {
		return Summary{}, err
	}

	summary.integerMedian = integerMedian(inputs...)

	return summary, nil
}

// Summary computes the descriptive statistics of the sample.
// It returns sentinel.ErrEmptySampleSet when the sample is empty.
func (s Sample) Summary() (Summary, error) {
	n := len(s)
	if n == 0 {
		return Summary{}, ewrap.Wrap(sentinel.ErrEmptySampleSet, "summary")
	}

	mean := s.mean()
	variance := s.variance(mean)
	q1, q3 := s.quartile()

	return Summary{
		Count:    n,
		Min:      s[0],
		Max:      s[n-1],
		Mean:     mean,
		Median:   s.median(),
		Q1:       q1,
		Q3:       q3,
		Variance: variance,
		Std:      math.Sqrt(variance),
	}, nil
}

// mean returns the arithmetic average of the sample.
func (s Sample) mean() float64 {
	var sum float64
	for _, value := range s {
		sum = float64(sum + value)
	}

	return sum / float64(len(s))
}

// median returns the middle value, or the average of the two middle values.
func (s Sample) median() float64 {
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}

	return s[mid]
}

// quartile returns the values at floor indexes n/4 and 3n/4, without interpolation.
func (s Sample) quartile() (q1, q3 float64) {
	n := len(s)

	return s[n/4], s[3*n/4]
}

// variance returns the population variance (divisor n).
func (s Sample) variance(mean float64) float64 {
	var variance float64
	for _, value := range s {
		diff := value - mean
		variance += float64(diff * diff)
	}

	return variance / float64(len(s))
}

// Select returns the named statistics as a name to value map, for encoding.
// The quartile maps to a two element slice. Unknown names are skipped.
func (s Summary) Select(names ...string) map[string]any {
	out := make(map[string]any, len(names))

	for _, name := range names {
		stat, ok := types.ParseStat(name)
		if !ok {
			continue
		}

		switch stat {
		case types.StatMean:
			out[name] = s.Mean
		case types.StatMedian:
			out[name] = s.Median
		case types.StatQuartile:
			out[name] = []float64{s.Q1, s.Q3}
		case types.StatVariance:
			out[name] = s.Variance
		case types.StatStd:
			out[name] = s.Std
		}
	}

	return out
}
