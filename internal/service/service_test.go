package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"mystravastats/internal/analysis"
	"mystravastats/internal/logging"
	"mystravastats/internal/store"
	"mystravastats/internal/strava"
	"mystravastats/internal/stream"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

// steadySeries builds n one-second samples at a constant speed with flat altitude
func steadySeries(n int, speed float64) *stream.Series {
	s := &stream.Series{
		Distance: make([]float64, n),
		Time:     make([]int, n),
		Altitude: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.Distance[i] = float64(i) * speed
		s.Time[i] = i
		s.Altitude[i] = 250
	}
	return s
}

func streamsFrom(s *stream.Series) *strava.Streams {
	return &strava.Streams{
		Time:     &strava.StreamData[int]{Data: s.Time},
		Distance: &strava.StreamData[float64]{Data: s.Distance},
		Altitude: &strava.StreamData[float64]{Data: s.Altitude},
	}
}

type fakeClient struct {
	activities []strava.Activity
	streams    map[int64]*strava.Streams
	streamErrs map[int64]error
	afters     []time.Time
	fetched    []int64
}

func (f *fakeClient) GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]strava.Activity, error) {
	f.afters = append(f.afters, after)
	if page > 1 {
		return nil, nil
	}
	return f.activities, nil
}

func (f *fakeClient) GetActivityStreams(ctx context.Context, id int64) (*strava.Streams, error) {
	f.fetched = append(f.fetched, id)
	if err := f.streamErrs[id]; err != nil {
		return nil, err
	}
	return f.streams[id], nil
}

func (f *fakeClient) RateLimitStatus() (int, int) { return 100, 1000 }

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 9, 0, 0, 0, time.UTC)
}

func TestSyncAll(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()

	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Steady", Type: analysis.Ride, StartDate: day(1), StartDateLocal: day(1), Distance: 12000},
			{ID: 2, Name: "Manual", Type: analysis.Ride, StartDate: day(2), StartDateLocal: day(2), Manual: true},
			{ID: 3, Name: "Treadmill", Type: analysis.Run, StartDate: day(3), StartDateLocal: day(3)},
			{ID: 4, Name: "Flaky", Type: analysis.Ride, StartDate: day(4), StartDateLocal: day(4)},
		},
		streams: map[int64]*strava.Streams{
			1: streamsFrom(steadySeries(1200, 10)),
		},
		streamErrs: map[int64]error{
			3: strava.ErrNotFound,
			4: errors.New("connection reset"),
		},
	}

	sync := NewSyncService(client, st, analysis.SelectByObjective)

	progress := make(chan SyncProgress, 100)
	result, err := sync.SyncAll(ctx, progress)
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	phases := map[string]bool{}
	for p := range progress {
		phases[p.Phase] = true
	}
	for _, phase := range []string{PhaseActivities, PhaseStreams, PhaseEfforts} {
		if !phases[phase] {
			t.Errorf("no progress reported for %s", phase)
		}
	}

	if result.ActivitiesFetched != 4 || result.ActivitiesStored != 4 {
		t.Errorf("fetched/stored = %d/%d, want 4/4", result.ActivitiesFetched, result.ActivitiesStored)
	}
	if result.StreamsFetched != 1 {
		t.Errorf("StreamsFetched = %d, want 1", result.StreamsFetched)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want only the flaky activity", result.Errors)
	}
	if result.EffortsUpdated == 0 {
		t.Error("expected the synced ride to populate the best effort cache")
	}

	// The manual activity is never fetched
	for _, id := range client.fetched {
		if id == 2 {
			t.Error("streams requested for a manual activity")
		}
	}

	// Only the failed fetch is retried next time
	needing, err := st.ActivitiesNeedingStreams(ctx, 10)
	if err != nil {
		t.Fatalf("ActivitiesNeedingStreams failed: %v", err)
	}
	if len(needing) != 1 || needing[0].ID != 4 {
		t.Errorf("needing streams = %+v, want only activity 4", needing)
	}

	cached, err := st.GetBestEffort(ctx, analysis.Ride, "Best 1000 m")
	if err != nil {
		t.Fatalf("GetBestEffort failed: %v", err)
	}
	if cached.ActivityID != 1 || cached.Seconds != 100 {
		t.Errorf("cached effort = %+v, want activity 1 in 100 s", cached)
	}

	// A second sync resumes from the recorded time
	client.streamErrs = nil
	client.streams[4] = streamsFrom(steadySeries(600, 12))
	if _, err := sync.SyncAll(ctx, nil); err != nil {
		t.Fatalf("second SyncAll failed: %v", err)
	}
	if len(client.afters) < 2 || client.afters[len(client.afters)-1].IsZero() {
		t.Errorf("second sync should pass an 'after' time, got %v", client.afters)
	}

	// Activity 4 is faster over 1000 m and replaces the cached effort
	cached, _ = st.GetBestEffort(ctx, analysis.Ride, "Best 1000 m")
	if cached.ActivityID != 4 {
		t.Errorf("cached activity = %d, want 4", cached.ActivityID)
	}
}

func TestSyncAll_Cancelled(t *testing.T) {
	st := store.OpenTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSyncService(&fakeClient{}, st, analysis.SelectByObjective).SyncAll(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SyncAll = %v, want context.Canceled", err)
	}
}

// seedStore stores activities and, when given, their streams
func seedStore(t *testing.T, st *store.Store, activities []store.Activity, streams map[int64]*stream.Series) {
	t.Helper()
	ctx := context.Background()
	for i := range activities {
		if err := st.UpsertActivity(ctx, &activities[i]); err != nil {
			t.Fatalf("UpsertActivity failed: %v", err)
		}
	}
	for id, s := range streams {
		if err := st.SaveStreams(ctx, id, s); err != nil {
			t.Fatalf("SaveStreams failed: %v", err)
		}
	}
}

func TestStatisticsService_Efforts(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()

	seedStore(t, st, []store.Activity{
		{ID: 10, Name: "Easy", Type: analysis.Ride, StartDate: day(1), StartDateLocal: day(1), Distance: 12000},
		{ID: 11, Name: "Fast", Type: analysis.Ride, StartDate: day(2), StartDateLocal: day(2), Distance: 14400},
		{ID: 12, Name: "No GPS", Type: analysis.Ride, StartDate: day(3), StartDateLocal: day(3), Distance: 30000},
		{ID: 13, Name: "Jog", Type: analysis.Run, StartDate: day(3), StartDateLocal: day(3), Distance: 3200},
	}, map[int64]*stream.Series{
		10: steadySeries(1200, 10),
		11: steadySeries(1200, 12),
		13: steadySeries(800, 4),
	})

	svc := NewStatisticsService(st, StatisticsOptions{Rule: analysis.SelectByObjective, Workers: 2})

	report, err := svc.Efforts(ctx, analysis.Ride)
	if err != nil {
		t.Fatalf("Efforts failed: %v", err)
	}
	if report.Activities != 3 {
		t.Errorf("Activities = %d, want 3", report.Activities)
	}
	if len(report.Results) != len(analysis.SearchesFor(analysis.Ride)) {
		t.Fatalf("got %d results, want one per catalogue entry", len(report.Results))
	}

	found := 0
	for _, r := range report.Results {
		switch r.Search.Name {
		case "Best 1000 m":
			if r.Effort == nil || r.Effort.Activity.ID != 11 {
				t.Errorf("Best 1000 m = %+v, want activity 11", r.Effort)
			}
		case "Best 100 km":
			if r.Effort != nil {
				t.Errorf("Best 100 km should have no effort, got %+v", r.Effort)
			}
		}
		if r.Effort != nil {
			found++
		}
	}

	cached, err := svc.CachedEfforts(ctx, analysis.Ride)
	if err != nil {
		t.Fatalf("CachedEfforts failed: %v", err)
	}
	if len(cached) != found {
		t.Errorf("cached %d efforts, want %d", len(cached), found)
	}

	run, err := svc.Efforts(ctx, analysis.Run)
	if err != nil {
		t.Fatalf("Efforts(Run) failed: %v", err)
	}
	// 720 s at 4 m/s covers 2880 m; 360 s covers 1440 m
	if want := (2880 - 504.9) / 44.73; math.Abs(run.CooperVO2max-want) > 1e-6 {
		t.Errorf("CooperVO2max = %.3f, want %.3f", run.CooperVO2max, want)
	}
	if math.Abs(run.VO2maxSpeed-14.4) > 1e-6 {
		t.Errorf("VO2maxSpeed = %.3f, want 14.4", run.VO2maxSpeed)
	}

	// No record of 1500 m or more, so no VDOT
	if run.VDOT != 0 || run.VDOTEffort != nil || run.Predictions != nil {
		t.Errorf("VDOT = %v from %+v, want none", run.VDOT, run.VDOTEffort)
	}
	if report.VDOT != 0 || report.Predictions != nil {
		t.Error("rides should not get a VDOT")
	}

	unknown, err := svc.Efforts(ctx, "Swim")
	if err != nil || len(unknown.Results) != 0 {
		t.Errorf("Efforts(Swim) = %+v, %v; want empty report", unknown, err)
	}
}

func TestStatisticsService_VDOT(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()

	seedStore(t, st, []store.Activity{
		{ID: 50, Name: "Tempo", Type: analysis.Run, StartDate: day(8), StartDateLocal: day(8), Distance: 6160},
	}, map[int64]*stream.Series{50: steadySeries(1400, 4.4)})

	report, err := NewStatisticsService(st, StatisticsOptions{}).Efforts(ctx, analysis.Run)
	if err != nil {
		t.Fatalf("Efforts failed: %v", err)
	}

	// 5000 m in about 1136 s, between the VDOT 50 and 51 rows
	if report.VDOT <= 50 || report.VDOT >= 50.5 {
		t.Errorf("VDOT = %v, want just above 50", report.VDOT)
	}
	if report.VDOTEffort == nil || report.VDOTEffort.Activity.ID != 50 {
		t.Errorf("VDOT effort = %+v", report.VDOTEffort)
	}
	if len(report.Predictions) != 4 || report.Predictions[0].Seconds < 1116 || report.Predictions[0].Seconds > 1140 {
		t.Errorf("Predictions = %+v", report.Predictions)
	}
}

func TestStatisticsService_Slopes(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()

	// 1 km flat, 2 km at 8 %, 1 km flat, sampled every 10 m
	n := 401
	climb := &stream.Series{Distance: make([]float64, n), Time: make([]int, n), Altitude: make([]float64, n)}
	for i := 0; i < n; i++ {
		x := float64(i) * 10
		climb.Distance[i] = x
		climb.Time[i] = i * 2
		climb.Altitude[i] = 300 + math.Min(math.Max(x-1000, 0), 2000)*0.08
	}

	seedStore(t, st, []store.Activity{
		{ID: 20, Name: "Col", Type: analysis.Ride, StartDate: day(5), StartDateLocal: day(5), Distance: 4000},
		{ID: 21, Name: "Indoor", Type: analysis.VirtualRide, StartDate: day(6), StartDateLocal: day(6)},
	}, map[int64]*stream.Series{20: climb})

	svc := NewStatisticsService(st, StatisticsOptions{Segmenter: analysis.DefaultSegmenterConfig()})

	report, err := svc.Slopes(ctx, 20)
	if err != nil {
		t.Fatalf("Slopes failed: %v", err)
	}
	if len(report.Slopes) != 3 || report.Slopes[1].Type != analysis.Ascent {
		t.Fatalf("unexpected slopes %+v", report.Slopes)
	}
	if len(report.Climbs) != 1 || report.Climbs[0].Activity.ID != 20 {
		t.Errorf("unexpected climbs %+v", report.Climbs)
	}

	if _, err := svc.Slopes(ctx, 21); !errors.Is(err, store.ErrNoStreams) {
		t.Errorf("Slopes without streams = %v, want ErrNoStreams", err)
	}
	if _, err := svc.Slopes(ctx, 99); !errors.Is(err, store.ErrActivityNotFound) {
		t.Errorf("Slopes for unknown activity = %v, want ErrActivityNotFound", err)
	}
}

func TestStatisticsService_Aggregates(t *testing.T) {
	st := store.OpenTest(t)
	ctx := context.Background()

	var activities []store.Activity
	for i, km := range []float64{1, 2, 3, 4, 5} {
		activities = append(activities, store.Activity{
			ID: int64(30 + i), Name: "Ride", Type: analysis.Ride,
			StartDate: day(1 + i), StartDateLocal: day(1 + i),
			Distance: km * 1000, TotalElevationGain: km * 10,
		})
	}
	// Gap, then one more day
	activities = append(activities, store.Activity{
		ID: 40, Name: "Late", Type: analysis.Ride, StartDate: day(10), StartDateLocal: day(10), Distance: 2500,
	})
	seedStore(t, st, activities, nil)

	exclusive := NewStatisticsService(st, StatisticsOptions{})
	report, err := exclusive.Aggregates(ctx, analysis.Ride)
	if err != nil {
		t.Fatalf("Aggregates failed: %v", err)
	}
	if report.Summary.Activities != 6 {
		t.Errorf("Activities = %d, want 6", report.Summary.Activities)
	}
	if report.Eddington != 3 {
		t.Errorf("Eddington = %d, want 3", report.Eddington)
	}
	if len(report.EddingtonCounts) != 5 || report.EddingtonCounts[0] != 6 {
		t.Errorf("EddingtonCounts = %v", report.EddingtonCounts)
	}
	if report.MaxStreak != 5 {
		t.Errorf("MaxStreak = %d, want 5", report.MaxStreak)
	}
	if !report.HasBestDay || report.BestDay.Key != "2024-05-05" {
		t.Errorf("BestDay = %+v", report.BestDay)
	}
	if !report.HasActiveMonth || report.MostActiveMonth.Key != "2024-05" {
		t.Errorf("MostActiveMonth = %+v", report.MostActiveMonth)
	}

	empty, err := exclusive.Aggregates(ctx, analysis.Hike)
	if err != nil {
		t.Fatalf("Aggregates(Hike) failed: %v", err)
	}
	if empty.Eddington != 0 || empty.MaxStreak != 0 || empty.HasBestDay {
		t.Errorf("unexpected empty report %+v", empty)
	}
}

func TestCompareModeMatchesSelection(t *testing.T) {
	tests := []struct {
		rule analysis.SelectionRule
		kind analysis.Kind
		want store.CompareMode
	}{
		{analysis.SelectByObjective, analysis.TimeForDistance, store.CompareSeconds},
		{analysis.SelectByDistance, analysis.TimeForDistance, store.CompareSeconds},
		{analysis.SelectByObjective, analysis.DistanceForTime, store.CompareDistance},
		{analysis.SelectByObjective, analysis.ElevationForDistance, store.CompareElevation},
		{analysis.SelectByDistance, analysis.ElevationForDistance, store.CompareDistance},
		{analysis.SelectByObjective, analysis.PowerForTime, store.ComparePower},
		{analysis.SelectByDistance, analysis.PowerForTime, store.CompareDistance},
	}
	for _, tt := range tests {
		if got := compareMode(tt.rule, tt.kind); got != tt.want {
			t.Errorf("compareMode(%v, %v) = %v, want %v", tt.rule, tt.kind, got, tt.want)
		}
	}
}
