package analysis

import (
	"errors"
	"fmt"
	"time"

	"mystravastats/internal/stream"
)

// Target bounds. Targets must be strictly greater than these.
const (
	MinTargetDistance = 100.0 // meters
	MinTargetSeconds  = 10    // seconds

	// A window that falls this short of the target distance still counts (999.6 m for 1000 m)
	distanceTolerance = 0.5

	// Extrapolated times at or below this are treated as corrupted windows
	minEstimatedSeconds = 1.0
)

// ErrInvalidTarget is returned when a search target is too small to be meaningful
var ErrInvalidTarget = errors.New("invalid effort target")

// Activity is one recorded session with its optional stream data
type Activity struct {
	ID                 int64
	Name               string
	Type               string
	StartDate          time.Time // local start time
	Distance           float64   // meters
	MovingTime         int       // seconds
	TotalElevationGain float64   // meters
	Stream             *stream.Series
}

// ActivityRef identifies the activity an effort came from, for reporting
type ActivityRef struct {
	ID   int64
	Name string
	Type string
}

// Ref returns the reporting reference for the activity
func (a Activity) Ref() ActivityRef {
	return ActivityRef{ID: a.ID, Name: a.Name, Type: a.Type}
}

// Effort is the best window found by one search over one activity
type Effort struct {
	Target        float64 // meters for distance searches, seconds for time searches
	Distance      float64 // meters (extrapolated for time searches)
	Seconds       int     // seconds (extrapolated for the distance search)
	DeltaAltitude float64 // meters, altitude[end] - altitude[start]
	StartIndex    int
	EndIndex      int
	AveragePower  *int // watts, nil without a power stream
	Label         string
	Activity      ActivityRef
}

// window is an inclusive [start, end] range of sample indexes
type window struct {
	start, end int
}

// scanner describes one two-pointer search: which windows qualify and how they score
type scanner struct {
	admit  func(start, end int) bool            // window reached the target
	score  func(start, end int) (float64, bool) // objective value; false rejects the window
	better func(candidate, best float64) bool   // strict, so the earliest window wins ties

	// slide moves both pointers after a scored window instead of start alone,
	// keeping the window's sample count fixed once admitted
	slide bool
}

// scan moves end forward until the window is admitted, then moves start forward
// (and end too when sliding). Both pointers only increase, so a scan is O(n).
func (sc scanner) scan(n int) (best window, value float64, found bool) {
	start, end := 0, 0
	for end < n {
		if !sc.admit(start, end) {
			end++
			continue
		}
		if v, ok := sc.score(start, end); ok && (!found || sc.better(v, value)) {
			best = window{start: start, end: end}
			value = v
			found = true
		}
		start++
		if sc.slide {
			end++
		}
	}
	return best, value, found
}

func lower(candidate, best float64) bool  { return candidate < best }
func higher(candidate, best float64) bool { return candidate > best }

// distanceAdmit admits windows covering at least meters, within the half-meter tolerance
func distanceAdmit(s *stream.Series, meters float64) func(int, int) bool {
	return func(start, end int) bool {
		return s.Distance[end]-s.Distance[start] >= meters-distanceTolerance
	}
}

// timeAdmit admits windows lasting at least seconds
func timeAdmit(s *stream.Series, seconds int) func(int, int) bool {
	return func(start, end int) bool {
		return s.Time[end]-s.Time[start] >= seconds
	}
}

func validateDistance(meters float64) error {
	if meters <= MinTargetDistance {
		return fmt.Errorf("%w: distance %.1f m must be greater than %.0f m", ErrInvalidTarget, meters, MinTargetDistance)
	}
	return nil
}

func validateSeconds(seconds int) error {
	if seconds <= MinTargetSeconds {
		return fmt.Errorf("%w: duration %d s must be greater than %d s", ErrInvalidTarget, seconds, MinTargetSeconds)
	}
	return nil
}

// BestTimeForDistance finds the fastest window covering meters and extrapolates
// its time to exactly that distance.
// Returns nil without an altitude stream or with fewer than 2 samples.
func BestTimeForDistance(a Activity, meters float64) (*Effort, error) {
	if err := validateDistance(meters); err != nil {
		return nil, err
	}

	s := a.Stream
	if !s.HasAltitude() || s.Len() < 2 {
		return nil, nil
	}

	sc := scanner{
		admit: distanceAdmit(s, meters),
		score: func(start, end int) (float64, bool) {
			span := s.Distance[end] - s.Distance[start]
			estimate := meters / span * float64(s.Time[end]-s.Time[start])
			return estimate, estimate > minEstimatedSeconds
		},
		better: lower,
	}

	w, best, ok := sc.scan(s.Len())
	if !ok {
		return nil, nil
	}

	return &Effort{
		Target:        meters,
		Distance:      meters,
		Seconds:       int(best),
		DeltaAltitude: deltaAltitude(s, w),
		StartIndex:    w.start,
		EndIndex:      w.end,
		AveragePower:  averagePower(s, w),
		Label:         fmt.Sprintf("Best speed for %.0fm", meters),
		Activity:      a.Ref(),
	}, nil
}

// BestDistanceForTime finds the window covering the most ground in seconds,
// extrapolating its distance to exactly that duration.
func BestDistanceForTime(a Activity, seconds int) (*Effort, error) {
	if err := validateSeconds(seconds); err != nil {
		return nil, err
	}

	s := a.Stream
	if !s.HasAltitude() || s.Len() < 2 {
		return nil, nil
	}

	sc := scanner{
		admit: timeAdmit(s, seconds),
		score: func(start, end int) (float64, bool) {
			span := s.Distance[end] - s.Distance[start]
			elapsed := s.Time[end] - s.Time[start]
			estimate := span / float64(elapsed) * float64(seconds)
			return estimate, estimate > 0
		},
		better: higher,
	}

	w, best, ok := sc.scan(s.Len())
	if !ok {
		return nil, nil
	}

	return &Effort{
		Target:        float64(seconds),
		Distance:      best,
		Seconds:       seconds,
		DeltaAltitude: deltaAltitude(s, w),
		StartIndex:    w.start,
		EndIndex:      w.end,
		AveragePower:  averagePower(s, w),
		Label:         fmt.Sprintf("Best distance for %s", FormatSeconds(seconds)),
		Activity:      a.Ref(),
	}, nil
}

// BestElevationForDistance finds the window of at least meters with the largest
// raw altitude gain. The gain is not normalised by the window's real length.
func BestElevationForDistance(a Activity, meters float64) (*Effort, error) {
	if err := validateDistance(meters); err != nil {
		return nil, err
	}

	s := a.Stream
	if !s.HasAltitude() || s.Len() < 2 {
		return nil, nil
	}

	sc := scanner{
		admit: distanceAdmit(s, meters),
		score: func(start, end int) (float64, bool) {
			return s.Altitude[end] - s.Altitude[start], true
		},
		better: higher,
	}

	w, best, ok := sc.scan(s.Len())
	if !ok {
		return nil, nil
	}

	return &Effort{
		Target:        meters,
		Distance:      meters,
		Seconds:       s.Time[w.end] - s.Time[w.start],
		DeltaAltitude: best,
		StartIndex:    w.start,
		EndIndex:      w.end,
		AveragePower:  averagePower(s, w),
		Label:         fmt.Sprintf("Best gradient for %dm", int(meters)),
		Activity:      a.Ref(),
	}, nil
}

// BestPowerForTime finds the window of at least seconds with the highest total
// power and reports that window's average. Once a window is admitted the scan
// slides it one sample at a time, so a pause in the recording doesn't shrink
// it below the samples that first reached the duration.
// Requires a power stream; altitude is optional.
func BestPowerForTime(a Activity, seconds int) (*Effort, error) {
	if err := validateSeconds(seconds); err != nil {
		return nil, err
	}

	s := a.Stream
	if !s.HasPower() || s.Len() < 2 || len(s.Power) < s.Len() {
		return nil, nil
	}

	sums := prefixSums(s.Power)
	total := func(w window) int { return sums[w.end+1] - sums[w.start] }

	sc := scanner{
		admit: timeAdmit(s, seconds),
		score: func(start, end int) (float64, bool) {
			t := total(window{start: start, end: end})
			return float64(t), t > 0
		},
		better: higher,
		slide:  true,
	}

	w, _, ok := sc.scan(s.Len())
	if !ok {
		return nil, nil
	}

	avg := total(w) / (w.end - w.start + 1)

	return &Effort{
		Target:        float64(seconds),
		Distance:      s.Distance[w.end] - s.Distance[w.start],
		Seconds:       seconds,
		DeltaAltitude: deltaAltitude(s, w),
		StartIndex:    w.start,
		EndIndex:      w.end,
		AveragePower:  &avg,
		Label:         fmt.Sprintf("Best power for %s", FormatSeconds(seconds)),
		Activity:      a.Ref(),
	}, nil
}

// prefixSums returns sums where sums[i] is the total of values[:i]
func prefixSums(values []int) []int {
	sums := make([]int, len(values)+1)
	for i, v := range values {
		sums[i+1] = sums[i] + v
	}
	return sums
}

// deltaAltitude returns the window's altitude change, or 0 without altitude data
func deltaAltitude(s *stream.Series, w window) float64 {
	if len(s.Altitude) <= w.end {
		return 0
	}
	return s.Altitude[w.end] - s.Altitude[w.start]
}

// averagePower returns the mean watts over the window, or nil without power data
func averagePower(s *stream.Series, w window) *int {
	if len(s.Power) <= w.end {
		return nil
	}
	var sum int
	for i := w.start; i <= w.end; i++ {
		sum += s.Power[i]
	}
	avg := sum / (w.end - w.start + 1)
	return &avg
}
