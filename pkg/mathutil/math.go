package mathutil

import (
	"sort"
	"time"
)

// Microseconds converts a kernel value expressed in microseconds to a duration
func Microseconds(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

// WholeSeconds truncates a duration toward zero to whole seconds
func WholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// AbsDuration returns the absolute value of a duration
func AbsDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// MedianDuration returns the median of the samples, or 0 for an empty slice.
// The input slice is not modified.
func MedianDuration(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
