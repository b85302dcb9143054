package analysis

import (
	"sort"
	"time"
)

// CooperVO2max estimates VO2max (ml/kg/min) from the best 12 minute distance
func CooperVO2max(e *Effort) float64 {
	if e == nil {
		return 0
	}
	return (e.Distance - 504.9) / 44.73
}

// VO2maxSpeed returns the km/h held over the best 6 minute effort
func VO2maxSpeed(e *Effort) float64 {
	if e == nil || e.Seconds <= 0 {
		return 0
	}
	return e.Distance / float64(e.Seconds) * 3600 / 1000
}

// Summary holds whole-collection totals
type Summary struct {
	Activities     int
	ActiveDays     int
	TotalDistance  float64 // meters
	TotalElevation float64 // meters
	KmPerActivity  float64
}

// Summarize totals a collection of activities
func Summarize(activities []Activity) Summary {
	var s Summary
	days := make(map[string]struct{})
	for _, a := range activities {
		s.Activities++
		s.TotalDistance += a.Distance
		s.TotalElevation += a.TotalElevationGain
		days[DayKey(a.StartDate)] = struct{}{}
	}
	s.ActiveDays = len(days)
	if s.Activities > 0 {
		s.KmPerActivity = s.TotalDistance / 1000 / float64(s.Activities)
	}
	return s
}

// DayTotal is an aggregated value for one calendar day or month
type DayTotal struct {
	Key   string // "2006-01-02" for days, "2006-01" for months
	Value float64
}

// BestDay returns the day with the most distance. Ties go to the earliest day.
func BestDay(activities []Activity) (DayTotal, bool) {
	return bestPeriod(activities, DayLayout, func(a Activity) float64 { return a.Distance })
}

// BestElevationDay returns the day with the most elevation gain
func BestElevationDay(activities []Activity) (DayTotal, bool) {
	return bestPeriod(activities, DayLayout, func(a Activity) float64 { return a.TotalElevationGain })
}

// MostActiveMonth returns the calendar month with the most distance
func MostActiveMonth(activities []Activity) (DayTotal, bool) {
	return bestPeriod(activities, "2006-01", func(a Activity) float64 { return a.Distance })
}

func bestPeriod(activities []Activity, layout string, value func(Activity) float64) (DayTotal, bool) {
	totals := make(map[string]float64)
	for _, a := range activities {
		totals[a.StartDate.Format(layout)] += value(a)
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var best DayTotal
	found := false
	for _, k := range keys {
		if v := totals[k]; v > 0 && (!found || v > best.Value) {
			best = DayTotal{Key: k, Value: v}
			found = true
		}
	}
	return best, found
}

// ParseDay parses a DayTotal key produced by BestDay
func ParseDay(key string) (time.Time, error) {
	return time.Parse(DayLayout, key)
}
