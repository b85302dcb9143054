package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CompareMode determines how a cached best effort is compared with a candidate
type CompareMode int

const (
	CompareSeconds   CompareMode = iota // lower seconds wins (time for distance)
	CompareDistance                     // higher distance wins
	CompareElevation                    // higher altitude gain wins
	ComparePower                        // higher average power wins
	CompareReplace                      // always overwrite
)

// UpsertBestEffort stores e as the best effort for its statistic when it beats
// the cached one under mode. Equal values keep the cached effort.
func (s *Store) UpsertBestEffort(ctx context.Context, e *BestEffort, mode CompareMode) (updated bool, err error) {
	existing, err := s.GetBestEffort(ctx, e.ActivityType, e.Statistic)
	if err != nil && !errors.Is(err, ErrBestEffortNotFound) {
		return false, err
	}

	if existing != nil && !beats(e, existing, mode) {
		return false, nil
	}

	if err := insertBestEffort(ctx, s.db, e); err != nil {
		return false, err
	}

	return true, nil
}

// ReplaceBestEfforts swaps the whole cache for an activity type in one
// transaction. On error the previous cache is left as it was.
func (s *Store) ReplaceBestEfforts(ctx context.Context, activityType string, efforts []*BestEffort) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM best_efforts WHERE activity_type = ?`, activityType); err != nil {
		return fmt.Errorf("clearing best efforts: %w", err)
	}

	for _, e := range efforts {
		if e.ActivityType != activityType {
			return fmt.Errorf("best effort %q is for %s, not %s", e.Statistic, e.ActivityType, activityType)
		}
		if err := insertBestEffort(ctx, tx, e); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBestEffort(ctx context.Context, db execer, e *BestEffort) error {
	computedAt := e.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO best_efforts (
			activity_type, statistic, kind, target, activity_id, distance, seconds,
			delta_altitude, average_power, start_index, end_index, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_type, statistic) DO UPDATE SET
			kind = excluded.kind,
			target = excluded.target,
			activity_id = excluded.activity_id,
			distance = excluded.distance,
			seconds = excluded.seconds,
			delta_altitude = excluded.delta_altitude,
			average_power = excluded.average_power,
			start_index = excluded.start_index,
			end_index = excluded.end_index,
			computed_at = excluded.computed_at
	`,
		e.ActivityType, e.Statistic, e.Kind, e.Target, e.ActivityID, e.Distance, e.Seconds,
		e.DeltaAltitude, e.AveragePower, e.StartIndex, e.EndIndex, computedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting best effort %q: %w", e.Statistic, err)
	}
	return nil
}

func beats(candidate, existing *BestEffort, mode CompareMode) bool {
	switch mode {
	case CompareSeconds:
		return candidate.Seconds < existing.Seconds
	case CompareDistance:
		return candidate.Distance > existing.Distance
	case CompareElevation:
		return candidate.DeltaAltitude > existing.DeltaAltitude
	case ComparePower:
		if candidate.AveragePower == nil {
			return false
		}
		return existing.AveragePower == nil || *candidate.AveragePower > *existing.AveragePower
	default:
		return true
	}
}

// GetBestEffort retrieves the cached best effort for a statistic
func (s *Store) GetBestEffort(ctx context.Context, activityType, statistic string) (*BestEffort, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, activity_type, statistic, kind, target, activity_id, distance, seconds,
			delta_altitude, average_power, start_index, end_index, computed_at
		FROM best_efforts
		WHERE activity_type = ? AND statistic = ?
	`, activityType, statistic)

	e, err := scanBestEffort(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBestEffortNotFound
	}
	return e, err
}

// ListBestEfforts retrieves every cached best effort for an activity type
func (s *Store) ListBestEfforts(ctx context.Context, activityType string) ([]BestEffort, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, activity_type, statistic, kind, target, activity_id, distance, seconds,
			delta_altitude, average_power, start_index, end_index, computed_at
		FROM best_efforts
		WHERE activity_type = ?
		ORDER BY id
	`, activityType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var efforts []BestEffort
	for rows.Next() {
		e, err := scanBestEffort(rows)
		if err != nil {
			return nil, err
		}
		efforts = append(efforts, *e)
	}
	return efforts, rows.Err()
}

func scanBestEffort(row rowScanner) (*BestEffort, error) {
	var e BestEffort
	var computedAt string

	err := row.Scan(
		&e.ID, &e.ActivityType, &e.Statistic, &e.Kind, &e.Target, &e.ActivityID, &e.Distance, &e.Seconds,
		&e.DeltaAltitude, &e.AveragePower, &e.StartIndex, &e.EndIndex, &computedAt,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	e.ComputedAt, parseErr = time.Parse(time.RFC3339, computedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, parseErr)
	}
	return &e, nil
}
