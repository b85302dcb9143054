package analysis

import (
	"sort"
	"time"
)

// DayLayout is the key format for per-day aggregates
const DayLayout = "2006-01-02"

// DayKey returns the calendar day of a local start time
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// DailyDistances sums each calendar day's distance in whole kilometers. Every
// activity is truncated to km before summing, so activities under 1 km don't count.
func DailyDistances(activities []Activity) map[string]int {
	daily := make(map[string]int)
	for _, a := range activities {
		if km := int(a.Distance / 1000); km > 0 {
			daily[DayKey(a.StartDate)] += km
		}
	}
	return daily
}

// EddingtonCounts returns counts where counts[d-1] is the number of days
// with at least d kilometers, for d from 1 to the longest day.
func EddingtonCounts(dailyKm map[string]int) []int {
	longest := 0
	for _, km := range dailyKm {
		longest = max(longest, km)
	}
	if longest == 0 {
		return []int{}
	}

	perDistance := make([]int, longest+1)
	for _, km := range dailyKm {
		if km > 0 {
			perDistance[km]++
		}
	}

	counts := make([]int, longest)
	cumulative := 0
	for km := longest; km >= 1; km-- {
		cumulative += perDistance[km]
		counts[km-1] = cumulative
	}
	return counts
}

// EddingtonNumber returns the largest d such that at least d days have at least d km,
// or 0 if there is none.
func EddingtonNumber(dailyKm map[string]int) int {
	counts := EddingtonCounts(dailyKm)
	for d := len(counts); d >= 1; d-- {
		if counts[d-1] >= d {
			return d
		}
	}
	return 0
}

// ActiveDates returns each activity's local start date, in chronological order
func ActiveDates(activities []Activity) []time.Time {
	dates := make([]time.Time, 0, len(activities))
	for _, a := range activities {
		dates = append(dates, a.StartDate)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// epochDay maps a time's calendar date, in its own location, to a day number
func epochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// MaxStreak returns the longest run of consecutive calendar days with at least
// one activity. Days are scanned from the first date up to, but excluding, the
// last date unless includeLastDay is set.
func MaxStreak(dates []time.Time, includeLastDay bool) int {
	if len(dates) == 0 {
		return 0
	}

	first, last := epochDay(dates[0]), epochDay(dates[0])
	for _, d := range dates[1:] {
		day := epochDay(d)
		first = min(first, day)
		last = max(last, day)
	}

	days := int(last - first)
	if includeLastDay {
		days++
	}
	if days <= 0 {
		return 0
	}

	active := make([]bool, days)
	for _, d := range dates {
		if offset := int(epochDay(d) - first); offset < days {
			active[offset] = true
		}
	}

	longest, current := 0, 0
	for _, on := range active {
		if on {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}
	return longest
}
