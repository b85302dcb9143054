package strava

import (
	"fmt"
	"time"

	"mystravastats/internal/stream"
)

// Activity represents a Strava activity from the API
type Activity struct {
	ID                 int64     `json:"id"`
	Athlete            Athlete   `json:"athlete"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageSpeed       float64   `json:"average_speed"`        // m/s
	MaxSpeed           float64   `json:"max_speed"`            // m/s
	AverageWatts       *float64  `json:"average_watts,omitempty"`
	DeviceWatts        bool      `json:"device_watts"`
	Manual             bool      `json:"manual"`
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// Streams represents activity stream data from the API
// Strava returns streams keyed by type when key_by_type=true
type Streams struct {
	Time     *StreamData[int]        `json:"time"`
	Distance *StreamData[float64]    `json:"distance"`
	LatLng   *StreamData[[2]float64] `json:"latlng"`
	Altitude *StreamData[float64]    `json:"altitude"`
	Watts    *StreamData[int]        `json:"watts"`
	Moving   *StreamData[bool]       `json:"moving"`
}

// StreamData represents a single stream type
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

func (d *StreamData[T]) values() []T {
	if d == nil || len(d.Data) == 0 {
		return nil
	}
	return d.Data
}

// Len returns the length of the stream, or 0 if nil
func (s *Streams) Len() int {
	if s == nil || s.Time == nil {
		return 0
	}
	return len(s.Time.Data)
}

// ToSeries converts the API streams into a validated series.
// Time and distance are required; the other streams stay nil when absent.
func (s *Streams) ToSeries() (*stream.Series, error) {
	if s.Len() == 0 || len(s.Distance.values()) == 0 {
		return nil, fmt.Errorf("streams: time and distance are required")
	}

	series := &stream.Series{
		Time:     s.Time.values(),
		Distance: s.Distance.values(),
		Altitude: s.Altitude.values(),
		Power:    s.Watts.values(),
		Moving:   s.Moving.values(),
		LatLng:   s.LatLng.values(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
