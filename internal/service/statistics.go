package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mystravastats/internal/analysis"
	"mystravastats/internal/logging"
	"mystravastats/internal/store"
)

// StatisticsOptions configures the statistics service
type StatisticsOptions struct {
	Rule                 analysis.SelectionRule
	Segmenter            analysis.SegmenterConfig
	Workers              int
	StreakIncludeLastDay bool
}

// StatisticsService computes efforts, slopes and aggregates from the store
type StatisticsService struct {
	store *store.Store
	opts  StatisticsOptions
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(st *store.Store, opts StatisticsOptions) *StatisticsService {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &StatisticsService{store: st, opts: opts}
}

// StatisticResult is the winner of one catalogue search. Effort is nil when
// no activity had enough data.
type StatisticResult struct {
	Search analysis.Search
	Effort *analysis.Effort
}

// EffortReport holds every catalogue statistic for an activity type
type EffortReport struct {
	ActivityType string
	Activities   int
	Results      []StatisticResult

	// Derived from the 12 and 6 minute distance efforts, zero when absent
	CooperVO2max float64
	VO2maxSpeed  float64

	// Running only: the best VDOT among the distance records and its race equivalents
	VDOT        float64
	VDOTEffort  *analysis.Effort
	Predictions []analysis.RacePrediction
}

// Efforts evaluates the activity type's catalogue across every stored
// activity of that type and refreshes the best effort cache
func (s *StatisticsService) Efforts(ctx context.Context, activityType string) (*EffortReport, error) {
	searches := analysis.SearchesFor(activityType)
	report := &EffortReport{ActivityType: activityType}
	if len(searches) == 0 {
		return report, nil
	}

	activities, err := s.loadActivities(ctx, activityType, true)
	if err != nil {
		return nil, err
	}
	report.Activities = len(activities)

	// efforts[i][j] is search i over activity j; each goroutine owns one cell
	efforts := make([][]*analysis.Effort, len(searches))
	for i := range efforts {
		efforts[i] = make([]*analysis.Effort, len(activities))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for j := range activities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i, search := range searches {
				e, err := search.Run(activities[j])
				if err != nil {
					return fmt.Errorf("%s on activity %d: %w", search.Name, activities[j].ID, err)
				}
				efforts[i][j] = e
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []*analysis.Effort
	var cache []*store.BestEffort
	for i, search := range searches {
		best := analysis.SelectBest(s.opts.Rule, search.Kind, efforts[i])
		report.Results = append(report.Results, StatisticResult{Search: search, Effort: best})
		if best == nil {
			continue
		}
		if search.Kind == analysis.TimeForDistance {
			records = append(records, best)
		}

		cache = append(cache, toBestEffort(activityType, search, best))

		if search.Kind == analysis.DistanceForTime {
			switch int(search.Target) {
			case analysis.CooperSeconds:
				report.CooperVO2max = analysis.CooperVO2max(best)
			case analysis.VO2maxSeconds:
				report.VO2maxSpeed = analysis.VO2maxSpeed(best)
			}
		}
	}

	if err := s.store.ReplaceBestEfforts(ctx, activityType, cache); err != nil {
		return nil, fmt.Errorf("caching best efforts: %w", err)
	}

	if activityType == analysis.Run || activityType == analysis.TrailRun {
		report.VDOT, report.VDOTEffort = analysis.BestVDOT(records)
		report.Predictions = analysis.PredictRaces(report.VDOT)
	}

	logging.Infow("efforts computed", "type", activityType, "activities", len(activities), "statistics", len(searches))
	return report, nil
}

// CachedEfforts returns the best efforts stored by the last Efforts run or sync
func (s *StatisticsService) CachedEfforts(ctx context.Context, activityType string) ([]store.BestEffort, error) {
	return s.store.ListBestEfforts(ctx, activityType)
}

// SlopeReport holds an activity's terrain segmentation
type SlopeReport struct {
	Activity store.Activity
	Slopes   []analysis.Slope
	Climbs   []analysis.Effort
	Altitude []float64 // raw profile, for charts
}

// Slopes segments one activity into ascents, descents and plateaus
func (s *StatisticsService) Slopes(ctx context.Context, activityID int64) (*SlopeReport, error) {
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	series, err := s.store.GetStreams(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("activity %d: %w", activityID, err)
	}

	slopes := analysis.ListSlopes(series, s.opts.Segmenter)
	report := &SlopeReport{
		Activity: *activity,
		Slopes:   slopes,
		Climbs:   analysis.SlopeEfforts(toAnalysis(*activity, series), slopes),
		Altitude: series.Altitude,
	}

	logging.Debugw("slopes computed", "activity_id", activityID, "slopes", len(slopes), "climbs", len(report.Climbs))
	return report, nil
}

// AggregateReport holds whole-collection statistics for an activity type
type AggregateReport struct {
	ActivityType    string
	Summary         analysis.Summary
	Eddington       int
	EddingtonCounts []int
	MaxStreak       int

	BestDay          analysis.DayTotal
	HasBestDay       bool
	BestElevationDay analysis.DayTotal
	HasElevationDay  bool
	MostActiveMonth  analysis.DayTotal
	HasActiveMonth   bool
}

// Aggregates computes summary statistics that only need activity summaries
func (s *StatisticsService) Aggregates(ctx context.Context, activityType string) (*AggregateReport, error) {
	activities, err := s.loadActivities(ctx, activityType, false)
	if err != nil {
		return nil, err
	}

	daily := analysis.DailyDistances(activities)
	report := &AggregateReport{
		ActivityType:    activityType,
		Summary:         analysis.Summarize(activities),
		Eddington:       analysis.EddingtonNumber(daily),
		EddingtonCounts: analysis.EddingtonCounts(daily),
		MaxStreak:       analysis.MaxStreak(analysis.ActiveDates(activities), s.opts.StreakIncludeLastDay),
	}
	report.BestDay, report.HasBestDay = analysis.BestDay(activities)
	report.BestElevationDay, report.HasElevationDay = analysis.BestElevationDay(activities)
	report.MostActiveMonth, report.HasActiveMonth = analysis.MostActiveMonth(activities)

	return report, nil
}

// loadActivities reads activities of a type, with their streams when requested.
// Activities without stored streams keep a nil stream.
func (s *StatisticsService) loadActivities(ctx context.Context, activityType string, withStreams bool) ([]analysis.Activity, error) {
	stored, err := s.store.ListActivities(ctx, activityType)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	activities := make([]analysis.Activity, 0, len(stored))
	for _, a := range stored {
		converted := toAnalysis(a, nil)
		if withStreams {
			series, err := s.store.GetStreams(ctx, a.ID)
			switch {
			case errors.Is(err, store.ErrNoStreams):
			case err != nil:
				return nil, fmt.Errorf("loading streams for %d: %w", a.ID, err)
			default:
				converted.Stream = series
			}
		}
		activities = append(activities, converted)
	}
	return activities, nil
}
