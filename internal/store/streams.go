package store

import (
	"context"
	"database/sql"
	"fmt"

	"mystravastats/internal/stream"
)

// SaveStreams saves stream data for an activity and marks its streams synced.
// It replaces any existing stream data for the activity.
func (s *Store) SaveStreams(ctx context.Context, activityID int64, series *stream.Series) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("activity %d: %w", activityID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete existing streams for this activity
	if _, err := tx.ExecContext(ctx, "DELETE FROM streams WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing streams: %w", err)
	}

	// Prepare insert statement
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO streams (
			activity_id, sample_index, time_offset, distance, altitude,
			watts, moving, latlng_lat, latlng_lng
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Insert all samples
	for i := 0; i < series.Len(); i++ {
		var altitude, lat, lng *float64
		var watts, moving *int
		if series.Altitude != nil {
			altitude = &series.Altitude[i]
		}
		if series.Power != nil {
			watts = &series.Power[i]
		}
		if series.Moving != nil {
			m := boolToInt(series.Moving[i])
			moving = &m
		}
		if series.LatLng != nil {
			lat, lng = &series.LatLng[i][0], &series.LatLng[i][1]
		}

		_, err := stmt.ExecContext(ctx,
			activityID, i, series.Time[i], series.Distance[i], altitude,
			watts, moving, lat, lng,
		)
		if err != nil {
			return fmt.Errorf("inserting stream sample %d: %w", i, err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE activities
		SET streams_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, activityID)
	if err != nil {
		return fmt.Errorf("marking streams synced: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrActivityNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetStreams rebuilds an activity's stream series. An optional stream that
// was never recorded comes back nil.
func (s *Store) GetStreams(ctx context.Context, activityID int64) (*stream.Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time_offset, distance, altitude, watts, moving, latlng_lat, latlng_lng
		FROM streams
		WHERE activity_id = ?
		ORDER BY sample_index
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := &stream.Series{}
	var altitudes []sql.NullFloat64
	var watts, moving []sql.NullInt64
	var lats, lngs []sql.NullFloat64

	for rows.Next() {
		var t int
		var d float64
		var alt, lat, lng sql.NullFloat64
		var w, m sql.NullInt64

		if err := rows.Scan(&t, &d, &alt, &w, &m, &lat, &lng); err != nil {
			return nil, err
		}
		series.Time = append(series.Time, t)
		series.Distance = append(series.Distance, d)
		altitudes = append(altitudes, alt)
		watts = append(watts, w)
		moving = append(moving, m)
		lats = append(lats, lat)
		lngs = append(lngs, lng)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, ErrNoStreams
	}

	if altitudes[0].Valid {
		series.Altitude = make([]float64, len(altitudes))
		for i, v := range altitudes {
			series.Altitude[i] = v.Float64
		}
	}
	if watts[0].Valid {
		series.Power = make([]int, len(watts))
		for i, v := range watts {
			series.Power[i] = int(v.Int64)
		}
	}
	if moving[0].Valid {
		series.Moving = make([]bool, len(moving))
		for i, v := range moving {
			series.Moving[i] = v.Int64 == 1
		}
	}
	if lats[0].Valid && lngs[0].Valid {
		series.LatLng = make([][2]float64, len(lats))
		for i := range lats {
			series.LatLng[i] = [2]float64{lats[i].Float64, lngs[i].Float64}
		}
	}

	return series, nil
}
