package stream

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when an optional stream doesn't line up with distance/time
var ErrLengthMismatch = errors.New("stream length mismatch")

// ErrNotMonotonic is returned when distance decreases or time doesn't increase
var ErrNotMonotonic = errors.New("stream not monotonic")

// Series holds the aligned per-sample arrays for one activity.
// Every present slice shares the same sample index space; a nil optional
// slice means the stream was not recorded.
type Series struct {
	Distance []float64    // cumulative meters
	Time     []int        // cumulative seconds since start
	Altitude []float64    // meters, optional
	Power    []int        // watts, optional
	Moving   []bool       // optional
	LatLng   [][2]float64 // optional
}

// Len returns the number of samples, or 0 for a nil series
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Distance)
}

// HasAltitude returns true if altitude data exists
func (s *Series) HasAltitude() bool {
	return s != nil && len(s.Altitude) > 0
}

// HasPower returns true if power data exists
func (s *Series) HasPower() bool {
	return s != nil && len(s.Power) > 0
}

// Validate checks the alignment and monotonicity invariants.
func (s *Series) Validate() error {
	if s == nil {
		return nil
	}

	n := len(s.Distance)
	if len(s.Time) != n {
		return fmt.Errorf("%w: time has %d samples, distance has %d", ErrLengthMismatch, len(s.Time), n)
	}
	if s.Altitude != nil && len(s.Altitude) != n {
		return fmt.Errorf("%w: altitude has %d samples, distance has %d", ErrLengthMismatch, len(s.Altitude), n)
	}
	if s.Power != nil && len(s.Power) != n {
		return fmt.Errorf("%w: power has %d samples, distance has %d", ErrLengthMismatch, len(s.Power), n)
	}
	if s.Moving != nil && len(s.Moving) != n {
		return fmt.Errorf("%w: moving has %d samples, distance has %d", ErrLengthMismatch, len(s.Moving), n)
	}
	if s.LatLng != nil && len(s.LatLng) != n {
		return fmt.Errorf("%w: latlng has %d samples, distance has %d", ErrLengthMismatch, len(s.LatLng), n)
	}

	for i := 1; i < n; i++ {
		if s.Distance[i] < s.Distance[i-1] {
			return fmt.Errorf("%w: distance drops at sample %d", ErrNotMonotonic, i)
		}
		if s.Time[i] <= s.Time[i-1] {
			return fmt.Errorf("%w: time does not increase at sample %d", ErrNotMonotonic, i)
		}
	}

	return nil
}

// Slice returns a copy of the samples in [start, end] (inclusive).
// Out-of-range bounds are clamped; an empty window yields an empty series.
func (s *Series) Slice(start, end int) *Series {
	n := s.Len()
	if start < 0 {
		start = 0
	}
	if end > n-1 {
		end = n - 1
	}
	if n == 0 || start > end {
		return &Series{}
	}

	out := &Series{
		Distance: append([]float64(nil), s.Distance[start:end+1]...),
		Time:     append([]int(nil), s.Time[start:end+1]...),
	}
	if s.Altitude != nil {
		out.Altitude = append([]float64(nil), s.Altitude[start:end+1]...)
	}
	if s.Power != nil {
		out.Power = append([]int(nil), s.Power[start:end+1]...)
	}
	if s.Moving != nil {
		out.Moving = append([]bool(nil), s.Moving[start:end+1]...)
	}
	if s.LatLng != nil {
		out.LatLng = append([][2]float64(nil), s.LatLng[start:end+1]...)
	}
	return out
}
