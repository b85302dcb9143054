package analysis

import "fmt"

// FormatSeconds formats seconds as "H:MM:SS" or "M:SS"
func FormatSeconds(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Speed returns the effort's average speed in m/s
func (e Effort) Speed() float64 {
	if e.Seconds <= 0 {
		return 0
	}
	return e.Distance / float64(e.Seconds)
}

// Gradient returns the effort's average gradient in percent
func (e Effort) Gradient() float64 {
	if e.Distance <= 0 {
		return 0
	}
	return 100 * e.DeltaAltitude / e.Distance
}

// FormattedSpeed returns pace per km for runs and km/h for everything else
func (e Effort) FormattedSpeed() string {
	if e.Distance <= 0 || e.Seconds <= 0 {
		return "-"
	}
	if isRun(e.Activity.Type) {
		return FormatSeconds(int(float64(e.Seconds)*1000/e.Distance)) + "/km"
	}
	return fmt.Sprintf("%.02f km/h", e.Speed()*3.6)
}

// FormattedGradient returns the gradient with two decimals
func (e Effort) FormattedGradient() string {
	return fmt.Sprintf("%.02f%%", e.Gradient())
}

// FormattedPower returns the average power, or "Not available"
func (e Effort) FormattedPower() string {
	if e.AveragePower == nil {
		return "Not available"
	}
	return fmt.Sprintf("%d W", *e.AveragePower)
}

func isRun(activityType string) bool {
	return activityType == Run || activityType == TrailRun
}
