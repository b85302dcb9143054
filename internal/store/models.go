package store

import "time"

// Activity represents a Strava activity summary
type Activity struct {
	ID                 int64     `db:"id"`
	AthleteID          int64     `db:"athlete_id"`
	Name               string    `db:"name"`
	Type               string    `db:"type"`
	StartDate          time.Time `db:"start_date"`
	StartDateLocal     time.Time `db:"start_date_local"`
	Timezone           string    `db:"timezone"`
	Distance           float64   `db:"distance"`     // meters
	MovingTime         int       `db:"moving_time"`  // seconds
	ElapsedTime        int       `db:"elapsed_time"` // seconds
	TotalElevationGain float64   `db:"total_elevation_gain"`
	AverageSpeed       float64   `db:"average_speed"` // m/s
	MaxSpeed           float64   `db:"max_speed"`     // m/s
	AverageWatts       *float64  `db:"average_watts"` // nullable
	DeviceWatts        bool      `db:"device_watts"`
	StreamsSynced      bool      `db:"streams_synced"`
}

// BestEffort is the cached winner of one statistic for an activity type
type BestEffort struct {
	ID            int64     `db:"id"`
	ActivityType  string    `db:"activity_type"`
	Statistic     string    `db:"statistic"` // catalogue name, e.g. "Best 5 km"
	Kind          string    `db:"kind"`      // search kind, e.g. "time-for-distance"
	Target        float64   `db:"target"`
	ActivityID    int64     `db:"activity_id"`
	Distance      float64   `db:"distance"`
	Seconds       int       `db:"seconds"`
	DeltaAltitude float64   `db:"delta_altitude"`
	AveragePower  *int      `db:"average_power"` // nullable
	StartIndex    int       `db:"start_index"`
	EndIndex      int       `db:"end_index"`
	ComputedAt    time.Time `db:"computed_at"`
}

