// Package streak computes consecutive-day streaks over recorded dates.
//
// All computations work at calendar-day granularity: timestamps on the
// same civil day count once, regardless of time of day. Callers pass raw
// dates; deduplication happens here.
package streak

import (
	"sort"
	"time"
)

// civil collapses a timestamp to its calendar day in the time's location.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// uniqueDays returns the distinct calendar days in ascending order.
func uniqueDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		day := civil(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Current returns the length of the consecutive-day streak ending today
// or yesterday, relative to the given reference day.
//
// If the most recent recorded day is neither today nor yesterday the
// streak is broken and the result is 0. Otherwise the walk proceeds
// backward, counting days until the first gap.
func Current(dates []time.Time, today time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}

	todayStart := civil(today)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	latest := days[len(days)-1]
	if !latest.Equal(todayStart) && !latest.Equal(yesterdayStart) {
		return 0
	}

	count := 1
	for i := len(days) - 2; i >= 0; i-- {
		expected := days[i+1].AddDate(0, 0, -1)
		if !days[i].Equal(expected) {
			break
		}
		count++
	}
	return count
}

// Longest returns the length of the longest consecutive-day run anywhere
// in the recorded dates, independent of when "today" falls.
func Longest(dates []time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest := 1
	current := 1
	for i := 1; i < len(days); i++ {
		expected := days[i-1].AddDate(0, 0, 1)
		if days[i].Equal(expected) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}
