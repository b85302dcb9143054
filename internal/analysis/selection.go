package analysis

import (
	"fmt"
	"strings"
)

// Kind identifies which sliding-window search a Search runs
type Kind int

const (
	TimeForDistance      Kind = iota // fastest time over a distance
	DistanceForTime                  // longest distance in a duration
	ElevationForDistance             // largest climb over a distance
	PowerForTime                     // highest power over a duration
)

// String returns the kind's short name
func (k Kind) String() string {
	switch k {
	case TimeForDistance:
		return "time-for-distance"
	case DistanceForTime:
		return "distance-for-time"
	case ElevationForDistance:
		return "elevation-for-distance"
	case PowerForTime:
		return "power-for-time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Search is one named target: a distance in meters or a duration in seconds
type Search struct {
	Name   string
	Kind   Kind
	Target float64
}

// Run evaluates the search against a single activity
func (s Search) Run(a Activity) (*Effort, error) {
	switch s.Kind {
	case TimeForDistance:
		return BestTimeForDistance(a, s.Target)
	case DistanceForTime:
		return BestDistanceForTime(a, int(s.Target))
	case ElevationForDistance:
		return BestElevationForDistance(a, s.Target)
	case PowerForTime:
		return BestPowerForTime(a, int(s.Target))
	default:
		return nil, fmt.Errorf("unknown search kind %d", int(s.Kind))
	}
}

// Validate checks the target without scanning any data
func (s Search) Validate() error {
	switch s.Kind {
	case TimeForDistance, ElevationForDistance:
		return validateDistance(s.Target)
	case DistanceForTime, PowerForTime:
		return validateSeconds(int(s.Target))
	default:
		return fmt.Errorf("unknown search kind %d", int(s.Kind))
	}
}

// SelectionRule decides which per-activity effort wins across activities
type SelectionRule int

const (
	// SelectByObjective picks the effort that is best at what its search optimises:
	// shortest time, longest distance, largest climb, highest average power.
	SelectByObjective SelectionRule = iota

	// SelectByDistance picks the largest Distance field for time, elevation and
	// power searches, and the shortest time for distance searches.
	SelectByDistance
)

// String returns the config name of the rule
func (r SelectionRule) String() string {
	if r == SelectByDistance {
		return "distance"
	}
	return "objective"
}

// ParseSelectionRule parses "objective" or "distance"
func ParseSelectionRule(s string) (SelectionRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "objective":
		return SelectByObjective, nil
	case "distance":
		return SelectByDistance, nil
	default:
		return SelectByObjective, fmt.Errorf("selection rule must be \"objective\" or \"distance\", got %q", s)
	}
}

// SelectBest returns the winning effort among per-activity results.
// Nil entries are skipped; on equal values the earliest effort wins.
func SelectBest(rule SelectionRule, kind Kind, efforts []*Effort) *Effort {
	var best *Effort
	for _, e := range efforts {
		if e == nil {
			continue
		}
		if best == nil || beats(rule, kind, e, best) {
			best = e
		}
	}
	return best
}

func beats(rule SelectionRule, kind Kind, candidate, best *Effort) bool {
	if kind == TimeForDistance {
		return candidate.Seconds < best.Seconds
	}

	if rule == SelectByDistance {
		return candidate.Distance > best.Distance
	}

	switch kind {
	case DistanceForTime:
		return candidate.Distance > best.Distance
	case ElevationForDistance:
		return candidate.DeltaAltitude > best.DeltaAltitude
	case PowerForTime:
		return powerOf(candidate) > powerOf(best)
	}
	return false
}

func powerOf(e *Effort) int {
	if e.AveragePower == nil {
		return 0
	}
	return *e.AveragePower
}

// FindBest runs the search over every activity and selects the winner.
// The target is validated once, before any activity is scanned.
func FindBest(rule SelectionRule, search Search, activities []Activity) (*Effort, error) {
	if err := search.Validate(); err != nil {
		return nil, err
	}

	efforts := make([]*Effort, 0, len(activities))
	for _, a := range activities {
		e, err := search.Run(a)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}
		efforts = append(efforts, e)
	}

	return SelectBest(rule, search.Kind, efforts), nil
}
