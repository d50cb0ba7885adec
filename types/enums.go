package types

// Stat is a statistic that can be requested from the aggregator.
type Stat string

const (
	// StatMean is the arithmetic average.
	StatMean Stat = "mean"
	// StatMedian is the middle value, or the average of the two middle values.
	StatMedian Stat = "median"
	// StatQuartile is the floor-index first and third quartile pair.
	StatQuartile Stat = "quartile"
	// StatVariance is the population variance.
	StatVariance Stat = "var"
	// StatStd is the population standard deviation.
	StatStd Stat = "std"
)

// Stats returns every supported statistic in declaration order.
func Stats() []Stat {
	return []Stat{StatMean, StatMedian, StatQuartile, StatVariance, StatStd}
}

// ParseStat returns the Stat named by name and whether it is supported.
func ParseStat(name string) (Stat, bool) {
	switch stat := Stat(name); stat {
	case StatMean, StatMedian, StatQuartile, StatVariance, StatStd:
		return stat, true
	default:
		return "", false
	}
}

// String returns the string representation of a Stat.
func (s Stat) String() string {
	return string(s)
}

// LimiterState is the state of a call limiter.
type LimiterState string

const (
	// LimiterOpen means the limiter still forwards calls.
	LimiterOpen LimiterState = "open"
	// LimiterExhausted means the limit was reached. It is terminal.
	LimiterExhausted LimiterState = "exhausted"
)

// String returns the string representation of a LimiterState.
func (s LimiterState) String() string {
	return string(s)
}
