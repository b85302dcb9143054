package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"mystravastats/internal/stream"
)

// SlopeType classifies a run of terrain
type SlopeType int

const (
	Ascent SlopeType = iota
	Descent
	Plateau
)

// String returns the slope type name
func (t SlopeType) String() string {
	switch t {
	case Ascent:
		return "Ascent"
	case Descent:
		return "Descent"
	case Plateau:
		return "Plateau"
	default:
		return fmt.Sprintf("SlopeType(%d)", int(t))
	}
}

// Slope is a classified, merged run of an activity's terrain
type Slope struct {
	Type          SlopeType
	StartIndex    int
	EndIndex      int
	StartAltitude float64 // meters, smoothed
	EndAltitude   float64 // meters, smoothed
	Grade         float64 // average grade, percent
	MaxGrade      float64 // steepest sample grade in the slope's direction, percent
	Distance      float64 // meters
	Duration      int     // seconds
	AverageSpeed  float64 // m/s
}

// SegmenterConfig tunes slope detection
type SegmenterConfig struct {
	GradeThreshold  float64 // percent; steeper pairs are ascent/descent
	MinDistance     float64 // meters; shorter segments are dropped
	ClimbIndexMin   float64 // distance × |grade| an ascent must reach
	SmoothingWindow int     // samples in the centred moving average
}

// DefaultSegmenterConfig returns the standard slope detection parameters
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		GradeThreshold:  3.0,
		MinDistance:     500,
		ClimbIndexMin:   3500,
		SmoothingWindow: 20,
	}
}

// Segments shorter than this are absorbed when sandwiched between two of the same type
const shortSegmentDistance = 500.0

// ListSlopes segments an activity into ascents, descents and plateaus,
// ordered by index. Returns nil without altitude data or with fewer than 2 samples.
func ListSlopes(s *stream.Series, cfg SegmenterConfig) []Slope {
	n := s.Len()
	if !s.HasAltitude() || n < 2 || len(s.Altitude) < n {
		return nil
	}

	altitudes := smooth(s.Altitude, cfg.SmoothingWindow)
	distances := smooth(s.Distance, cfg.SmoothingWindow)

	// grades[i] is the grade between samples i-1 and i; grades[0] is unused
	grades := make([]float64, n)
	for i := 1; i < n; i++ {
		dd := distances[i] - distances[i-1]
		if dd > 0 {
			grades[i] = (altitudes[i] - altitudes[i-1]) / dd * 100
		}
	}

	seg := segmenter{
		series:    s,
		altitudes: altitudes,
		distances: distances,
		grades:    grades,
		cfg:       cfg,
	}

	var slopes []Slope
	start := 0
	current := classify(grades[1], cfg.GradeThreshold)
	for i := 2; i < n; i++ {
		c := classify(grades[i], cfg.GradeThreshold)
		if c == current {
			continue
		}
		if slope, ok := seg.build(current, start, i-1); ok {
			slopes = append(slopes, slope)
		}
		start = i - 1
		current = c
	}
	if slope, ok := seg.build(current, start, n-1); ok {
		slopes = append(slopes, slope)
	}

	slopes = mergeConsecutive(slopes)
	return mergeShortSandwiched(slopes)
}

// classify returns the slope type of a single sample grade
func classify(grade, threshold float64) SlopeType {
	switch {
	case grade >= threshold:
		return Ascent
	case grade <= -threshold:
		return Descent
	default:
		return Plateau
	}
}

// smooth applies a moving average over exactly size samples, centred on each
// sample (an even size leans one sample ahead). Edge samples average over a
// shrinking window rather than padding.
func smooth(values []float64, size int) []float64 {
	out := make([]float64, len(values))
	if size <= 1 {
		copy(out, values)
		return out
	}

	behind, ahead := (size-1)/2, size/2
	for i := range values {
		lo := max(0, i-behind)
		hi := min(len(values)-1, i+ahead)
		out[i] = stat.Mean(values[lo:hi+1], nil)
	}
	return out
}

type segmenter struct {
	series    *stream.Series
	altitudes []float64
	distances []float64
	grades    []float64
	cfg       SegmenterConfig
}

// build measures the samples [start, end] and applies the inclusion rules
func (g segmenter) build(kind SlopeType, start, end int) (Slope, bool) {
	distance := g.distances[end] - g.distances[start]
	if distance <= 0 {
		return Slope{}, false
	}

	grade := (g.altitudes[end] - g.altitudes[start]) / distance * 100

	maxGrade := g.grades[start+1]
	for i := start + 2; i <= end; i++ {
		if kind == Descent {
			maxGrade = math.Min(maxGrade, g.grades[i])
		} else {
			maxGrade = math.Max(maxGrade, g.grades[i])
		}
	}

	duration := g.series.Time[end] - g.series.Time[start]
	var speed float64
	if duration > 0 {
		speed = distance / float64(duration)
	}

	slope := Slope{
		Type:          kind,
		StartIndex:    start,
		EndIndex:      end,
		StartAltitude: g.altitudes[start],
		EndAltitude:   g.altitudes[end],
		Grade:         grade,
		MaxGrade:      maxGrade,
		Distance:      distance,
		Duration:      duration,
		AverageSpeed:  speed,
	}
	return slope, g.keep(slope)
}

func (g segmenter) keep(s Slope) bool {
	if s.Distance < g.cfg.MinDistance {
		return false
	}
	steep := math.Abs(s.Grade) >= g.cfg.GradeThreshold

	switch s.Type {
	case Ascent:
		return steep && s.Distance*math.Abs(s.Grade) >= g.cfg.ClimbIndexMin
	case Descent:
		return steep
	default:
		return true
	}
}

// combine merges slopes into one of the given type. Grade and speed are
// distance-weighted; max grade is the extremum for the type.
func combine(kind SlopeType, parts ...Slope) Slope {
	first, last := parts[0], parts[len(parts)-1]

	distances := make([]float64, len(parts))
	grades := make([]float64, len(parts))
	speeds := make([]float64, len(parts))

	var total float64
	var duration int
	maxGrade := first.MaxGrade
	for i, p := range parts {
		distances[i] = p.Distance
		grades[i] = p.Grade
		speeds[i] = p.AverageSpeed
		total += p.Distance
		duration += p.Duration
		if kind == Descent {
			maxGrade = math.Min(maxGrade, p.MaxGrade)
		} else {
			maxGrade = math.Max(maxGrade, p.MaxGrade)
		}
	}

	var weights []float64
	if total > 0 {
		weights = distances
	}

	return Slope{
		Type:          kind,
		StartIndex:    first.StartIndex,
		EndIndex:      last.EndIndex,
		StartAltitude: first.StartAltitude,
		EndAltitude:   last.EndAltitude,
		Grade:         stat.Mean(grades, weights),
		MaxGrade:      maxGrade,
		Distance:      total,
		Duration:      duration,
		AverageSpeed:  stat.Mean(speeds, weights),
	}
}

// mergeConsecutive combines neighbouring slopes of the same type
func mergeConsecutive(slopes []Slope) []Slope {
	var out []Slope
	for _, s := range slopes {
		if n := len(out); n > 0 && out[n-1].Type == s.Type {
			out[n-1] = combine(s.Type, out[n-1], s)
			continue
		}
		out = append(out, s)
	}
	return out
}

// mergeShortSandwiched absorbs a short slope lying between two slopes of the
// same type. One left-to-right sweep; a merge consumes all three slopes.
func mergeShortSandwiched(slopes []Slope) []Slope {
	var out []Slope
	for i := 0; i < len(slopes); {
		if i+2 < len(slopes) {
			a, b, c := slopes[i], slopes[i+1], slopes[i+2]
			if a.Type == c.Type && b.Type != a.Type && b.Distance < shortSegmentDistance {
				out = append(out, combine(a.Type, a, b, c))
				i += 3
				continue
			}
		}
		out = append(out, slopes[i])
		i++
	}
	return out
}

// SlopeEfforts reports each ascent as an effort so climbs can be listed
// alongside the sliding-window results.
func SlopeEfforts(a Activity, slopes []Slope) []Effort {
	var efforts []Effort
	index := 0
	for _, s := range slopes {
		if s.Type != Ascent {
			continue
		}
		efforts = append(efforts, Effort{
			Target:        s.Distance,
			Distance:      s.Distance,
			Seconds:       s.Duration,
			DeltaAltitude: s.EndAltitude - s.StartAltitude,
			StartIndex:    s.StartIndex,
			EndIndex:      s.EndIndex,
			Label:         fmt.Sprintf("Slope: %d - max gradient %.1f %%", index, s.MaxGrade),
			Activity:      a.Ref(),
		})
		index++
	}
	return efforts
}
