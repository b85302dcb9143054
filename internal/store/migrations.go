package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (summary data from /athlete/activities)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_date_local TEXT NOT NULL,
			timezone TEXT,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			total_elevation_gain REAL,
			average_speed REAL,
			max_speed REAL,
			average_watts REAL,
			device_watts INTEGER NOT NULL DEFAULT 0,
			streams_synced INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date_local)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Streams, one row per sample index
		`CREATE TABLE IF NOT EXISTS streams (
			activity_id INTEGER NOT NULL,
			sample_index INTEGER NOT NULL,
			time_offset INTEGER NOT NULL,
			distance REAL NOT NULL,
			altitude REAL,
			watts INTEGER,
			moving INTEGER,
			latlng_lat REAL,
			latlng_lng REAL,
			PRIMARY KEY (activity_id, sample_index),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Cached winning effort per statistic and activity type
		`CREATE TABLE IF NOT EXISTS best_efforts (
			id INTEGER PRIMARY KEY,
			activity_type TEXT NOT NULL,
			statistic TEXT NOT NULL,
			kind TEXT NOT NULL,
			target REAL NOT NULL,
			activity_id INTEGER NOT NULL,
			distance REAL NOT NULL,
			seconds INTEGER NOT NULL,
			delta_altitude REAL NOT NULL,
			average_power INTEGER,
			start_index INTEGER NOT NULL,
			end_index INTEGER NOT NULL,
			computed_at TEXT NOT NULL,
			UNIQUE (activity_type, statistic),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_best_efforts_activity ON best_efforts(activity_id)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
