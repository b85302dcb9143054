package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, athlete_id, name, type, start_date, start_date_local, timezone,
	distance, moving_time, elapsed_time, total_elevation_gain,
	average_speed, max_speed, average_watts, device_watts, streams_synced`

// UpsertActivity inserts or updates an activity. The streams_synced flag is
// left untouched on update so a re-sync doesn't refetch streams.
func (s *Store) UpsertActivity(ctx context.Context, a *Activity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (
			id, athlete_id, name, type, start_date, start_date_local, timezone,
			distance, moving_time, elapsed_time, total_elevation_gain,
			average_speed, max_speed, average_watts, device_watts, streams_synced, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			timezone = excluded.timezone,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			average_speed = excluded.average_speed,
			max_speed = excluded.max_speed,
			average_watts = excluded.average_watts,
			device_watts = excluded.device_watts,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.AthleteID, a.Name, a.Type,
		a.StartDate.Format(time.RFC3339), a.StartDateLocal.Format(time.RFC3339), a.Timezone,
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain,
		a.AverageSpeed, a.MaxSpeed, a.AverageWatts, boolToInt(a.DeviceWatts), boolToInt(a.StreamsSynced),
	)
	if err != nil {
		return fmt.Errorf("upserting activity %d: %w", a.ID, err)
	}
	return nil
}

// GetActivity retrieves an activity by ID
func (s *Store) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns activities of the given type in chronological order.
// An empty type lists every activity.
func (s *Store) ListActivities(ctx context.Context, activityType string) ([]Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`
	var args []any
	if activityType != "" {
		query += ` WHERE type = ?`
		args = append(args, activityType)
	}
	query += ` ORDER BY start_date_local, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ActivitiesNeedingStreams returns activities that haven't had their streams synced,
// most recent first
func (s *Store) ActivitiesNeedingStreams(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE streams_synced = 0
		ORDER BY start_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// MarkStreamsSynced marks an activity's streams as synced
func (s *Store) MarkStreamsSynced(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE activities
		SET streams_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of activities
func (s *Store) CountActivities(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startDate, startDateLocal string
	var timezone sql.NullString
	var elevation, avgSpeed, maxSpeed sql.NullFloat64
	var deviceWatts, streamsSynced int

	err := row.Scan(
		&a.ID, &a.AthleteID, &a.Name, &a.Type, &startDate, &startDateLocal, &timezone,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &elevation,
		&avgSpeed, &maxSpeed, &a.AverageWatts, &deviceWatts, &streamsSynced,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	a.StartDate, parseErr = time.Parse(time.RFC3339, startDate)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, parseErr)
	}
	a.StartDateLocal, parseErr = time.Parse(time.RFC3339, startDateLocal)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date_local %q: %w", startDateLocal, parseErr)
	}
	a.Timezone = timezone.String
	a.TotalElevationGain = elevation.Float64
	a.AverageSpeed = avgSpeed.Float64
	a.MaxSpeed = maxSpeed.Float64
	a.DeviceWatts = deviceWatts == 1
	a.StreamsSynced = streamsSynced == 1

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}
