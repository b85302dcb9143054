package display

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"mystravastats/internal/analysis"
	"mystravastats/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

// FormatTotalDistance formats large totals with thousands separators
func (u Units) FormatTotalDistance(meters float64) string {
	per := metersPerKm
	if u.IsMiles() {
		per = metersPerMile
	}
	return humanize.CommafWithDigits(meters/per, 1) + " " + u.DistanceLabel()
}

// FormatElevation formats meters of climbing with thousands separators
func (u Units) FormatElevation(meters float64) string {
	return humanize.Comma(int64(meters+0.5)) + " m"
}

// FormatPace formats pace from total seconds and meters to the user's preferred unit
func (u Units) FormatPace(seconds int, meters float64) string {
	if meters <= 0 || seconds <= 0 {
		return "-"
	}

	per := metersPerKm
	if u.cfg.PaceUnit == "min/mi" {
		per = metersPerMile
	}
	return analysis.FormatSeconds(int(float64(seconds)/(meters/per))) + "/" + u.paceDistance()
}

func (u Units) paceDistance() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "mi"
	}
	return "km"
}

// FormatSpeed formats a speed in m/s as km/h or mph
func (u Units) FormatSpeed(metersPerSecond float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.2f mph", metersPerSecond*3600/metersPerMile)
	}
	return fmt.Sprintf("%.2f km/h", metersPerSecond*3.6)
}

// FormatEffortSpeed shows pace for runs and speed for everything else
func (u Units) FormatEffortSpeed(e *analysis.Effort) string {
	if e.Distance <= 0 || e.Seconds <= 0 {
		return "-"
	}
	if e.Activity.Type == analysis.Run || e.Activity.Type == analysis.TrailRun {
		return u.FormatPace(e.Seconds, e.Distance)
	}
	return u.FormatSpeed(e.Speed())
}

// FormatAgo renders a past time relative to now, e.g. "3 hours ago"
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
