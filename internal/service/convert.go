package service

import (
	"mystravastats/internal/analysis"
	"mystravastats/internal/store"
	"mystravastats/internal/strava"
	"mystravastats/internal/stream"
)

// convertActivity converts a Strava API activity to a store activity
func convertActivity(a strava.Activity) *store.Activity {
	activity := &store.Activity{
		ID:                 a.ID,
		AthleteID:          a.Athlete.ID,
		Name:               a.Name,
		Type:               a.Type,
		StartDate:          a.StartDate,
		StartDateLocal:     a.StartDateLocal,
		Timezone:           a.Timezone,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
		AverageSpeed:       a.AverageSpeed,
		MaxSpeed:           a.MaxSpeed,
		DeviceWatts:        a.DeviceWatts,
	}

	if a.AverageWatts != nil && *a.AverageWatts > 0 {
		watts := *a.AverageWatts
		activity.AverageWatts = &watts
	}

	return activity
}

// toAnalysis builds the engine's view of a stored activity. Day-based
// statistics use the local start time.
func toAnalysis(a store.Activity, s *stream.Series) analysis.Activity {
	return analysis.Activity{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               a.Type,
		StartDate:          a.StartDateLocal,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		TotalElevationGain: a.TotalElevationGain,
		Stream:             s,
	}
}

// toBestEffort converts a winning effort into its cache row
func toBestEffort(activityType string, search analysis.Search, e *analysis.Effort) *store.BestEffort {
	return &store.BestEffort{
		ActivityType:  activityType,
		Statistic:     search.Name,
		Kind:          search.Kind.String(),
		Target:        search.Target,
		ActivityID:    e.Activity.ID,
		Distance:      e.Distance,
		Seconds:       e.Seconds,
		DeltaAltitude: e.DeltaAltitude,
		AveragePower:  e.AveragePower,
		StartIndex:    e.StartIndex,
		EndIndex:      e.EndIndex,
	}
}

// compareMode returns how the cache compares two efforts of a search kind,
// matching analysis.SelectBest under the same rule
func compareMode(rule analysis.SelectionRule, kind analysis.Kind) store.CompareMode {
	switch kind {
	case analysis.TimeForDistance:
		return store.CompareSeconds
	case analysis.DistanceForTime:
		return store.CompareDistance
	case analysis.ElevationForDistance:
		if rule == analysis.SelectByDistance {
			return store.CompareDistance
		}
		return store.CompareElevation
	case analysis.PowerForTime:
		if rule == analysis.SelectByDistance {
			return store.CompareDistance
		}
		return store.ComparePower
	default:
		return store.CompareReplace
	}
}
