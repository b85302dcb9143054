package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mystravastats/internal/analysis"
	"mystravastats/internal/logging"
	"mystravastats/internal/store"
	"mystravastats/internal/strava"
)

// StravaClient is the part of the Strava API the sync needs
type StravaClient interface {
	GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]strava.Activity, error)
	GetActivityStreams(ctx context.Context, activityID int64) (*strava.Streams, error)
	RateLimitStatus() (shortRemaining, dailyRemaining int)
}

// SyncService orchestrates syncing data from Strava
type SyncService struct {
	client StravaClient
	store  *store.Store
	rule   analysis.SelectionRule
}

// NewSyncService creates a new sync service. The selection rule decides how
// newly synced activities are compared with the cached best efforts.
func NewSyncService(client StravaClient, st *store.Store, rule analysis.SelectionRule) *SyncService {
	return &SyncService{
		client: client,
		store:  st,
		rule:   rule,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // PhaseActivities, PhaseStreams or PhaseEfforts
	Total           int
	Completed       int
	CurrentActivity string
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	StreamsFetched    int
	EffortsUpdated    int
	Errors            []error
}

// SyncAll performs a full sync: activities -> streams -> cached best efforts.
// Per-activity failures are collected in the result; only store or
// cancellation errors abort the sync.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	// Phase 1: Sync activity summaries
	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	// Phase 2: Fetch streams for activities that need them
	synced, err := s.syncStreams(ctx, progress, result)
	if err != nil {
		return result, fmt.Errorf("syncing streams: %w", err)
	}

	// Phase 3: Fold the new streams into the best effort cache
	if err := s.updateBestEfforts(ctx, progress, synced, result); err != nil {
		return result, fmt.Errorf("updating best efforts: %w", err)
	}

	logging.Infow("sync finished",
		"fetched", result.ActivitiesFetched,
		"stored", result.ActivitiesStored,
		"streams", result.StreamsFetched,
		"efforts_updated", result.EffortsUpdated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func send(progress chan<- SyncProgress, p SyncProgress) {
	if progress != nil {
		progress <- p
	}
}

// syncActivities fetches all activities from Strava and stores them
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	// Get last sync time
	lastSyncStr, err := s.store.GetSyncState(ctx, store.SyncKeyLastActivitySync)
	if err != nil {
		return fmt.Errorf("reading sync state: %w", err)
	}
	var after time.Time
	if lastSyncStr != "" {
		if after, err = time.Parse(time.RFC3339, lastSyncStr); err != nil {
			logging.Warnw("ignoring unreadable sync state", "value", lastSyncStr, "error", err)
			after = time.Time{}
		}
	}
	startedAt := time.Now().UTC()

	send(progress, SyncProgress{Phase: PhaseActivities})
	logging.Debugw("fetching activities", "after", after)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		activities, err := s.client.GetActivities(ctx, after, page, ActivitiesPerPage)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		result.ActivitiesFetched += len(activities)

		for _, a := range activities {
			if err := s.store.UpsertActivity(ctx, convertActivity(a)); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
				continue
			}
			result.ActivitiesStored++

			// Manual entries never have streams
			if a.Manual {
				if err := s.store.MarkStreamsSynced(ctx, a.ID); err != nil {
					result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", a.ID, err))
				}
			}
		}

		send(progress, SyncProgress{
			Phase:     PhaseActivities,
			Total:     result.ActivitiesFetched,
			Completed: result.ActivitiesStored,
		})

		if len(activities) < ActivitiesPerPage {
			break // Last page
		}
	}

	// Update last sync time
	if err := s.store.SetSyncState(ctx, store.SyncKeyLastActivitySync, startedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}

	return nil
}

// syncStreams fetches stream data for activities that need it and returns
// the IDs whose streams were stored
func (s *SyncService) syncStreams(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) ([]int64, error) {
	// Limit to batch size to respect rate limits
	activities, err := s.store.ActivitiesNeedingStreams(ctx, StreamBatchSize)
	if err != nil {
		return nil, fmt.Errorf("getting activities needing streams: %w", err)
	}

	if len(activities) == 0 {
		return nil, nil
	}

	send(progress, SyncProgress{Phase: PhaseStreams, Total: len(activities)})

	var synced []int64
	for i, activity := range activities {
		if err := ctx.Err(); err != nil {
			return synced, err
		}

		send(progress, SyncProgress{
			Phase:           PhaseStreams,
			Total:           len(activities),
			Completed:       i,
			CurrentActivity: activity.Name,
		})

		streams, err := s.client.GetActivityStreams(ctx, activity.ID)
		if errors.Is(err, strava.ErrNotFound) {
			// Nothing to fetch later either
			logging.Warnw("activity has no streams", "activity_id", activity.ID)
			if err := s.store.MarkStreamsSynced(ctx, activity.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", activity.ID, err))
			}
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("activity %d (%s): %w", activity.ID, activity.Name, err))
			continue
		}

		series, err := streams.ToSeries()
		if err != nil {
			logging.Warnw("unusable streams", "activity_id", activity.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("converting streams for %d: %w", activity.ID, err))
			if err := s.store.MarkStreamsSynced(ctx, activity.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", activity.ID, err))
			}
			continue
		}

		if err := s.store.SaveStreams(ctx, activity.ID, series); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving streams for %d: %w", activity.ID, err))
			continue
		}

		result.StreamsFetched++
		synced = append(synced, activity.ID)
	}

	send(progress, SyncProgress{
		Phase:     PhaseStreams,
		Total:     len(activities),
		Completed: len(activities),
	})

	short, daily := s.client.RateLimitStatus()
	logging.Debugw("streams synced", "count", len(synced), "short_remaining", short, "daily_remaining", daily)

	return synced, s.store.SetSyncState(ctx, store.SyncKeyLastStreamSync, time.Now().UTC().Format(time.RFC3339))
}

// updateBestEfforts runs the statistics catalogue over newly synced
// activities and keeps any effort that beats the cached one
func (s *SyncService) updateBestEfforts(ctx context.Context, progress chan<- SyncProgress, ids []int64, result *SyncResult) error {
	if len(ids) == 0 {
		return nil
	}

	send(progress, SyncProgress{Phase: PhaseEfforts, Total: len(ids)})

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		activity, err := s.store.GetActivity(ctx, id)
		if err != nil {
			return err
		}

		send(progress, SyncProgress{
			Phase:           PhaseEfforts,
			Total:           len(ids),
			Completed:       i,
			CurrentActivity: activity.Name,
		})

		searches := analysis.SearchesFor(activity.Type)
		if len(searches) == 0 {
			continue
		}

		series, err := s.store.GetStreams(ctx, id)
		if err != nil {
			return err
		}
		a := toAnalysis(*activity, series)

		for _, search := range searches {
			effort, err := search.Run(a)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s on activity %d: %w", search.Name, id, err))
				continue
			}
			if effort == nil {
				continue
			}

			updated, err := s.store.UpsertBestEffort(ctx, toBestEffort(activity.Type, search, effort), compareMode(s.rule, search.Kind))
			if err != nil {
				return err
			}
			if updated {
				result.EffortsUpdated++
				logging.Debugw("new best effort", "statistic", search.Name, "activity_id", id)
			}
		}
	}

	send(progress, SyncProgress{Phase: PhaseEfforts, Total: len(ids), Completed: len(ids)})

	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}
