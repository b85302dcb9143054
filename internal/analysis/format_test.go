package analysis

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{300, "5:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestEffortFormatting(t *testing.T) {
	run := Effort{Distance: 1000, Seconds: 300, DeltaAltitude: 25, Activity: ActivityRef{Type: Run}}
	if got := run.FormattedSpeed(); got != "5:00/km" {
		t.Errorf("run FormattedSpeed = %q, want 5:00/km", got)
	}
	if got := run.FormattedGradient(); got != "2.50%" {
		t.Errorf("FormattedGradient = %q, want 2.50%%", got)
	}

	ride := Effort{Distance: 10000, Seconds: 1000, Activity: ActivityRef{Type: Ride}}
	if got := ride.FormattedSpeed(); got != "36.00 km/h" {
		t.Errorf("ride FormattedSpeed = %q, want 36.00 km/h", got)
	}
	if got := ride.FormattedPower(); got != "Not available" {
		t.Errorf("FormattedPower = %q", got)
	}

	ride.AveragePower = intPtr(215)
	if got := ride.FormattedPower(); got != "215 W" {
		t.Errorf("FormattedPower = %q, want 215 W", got)
	}

	if got := (Effort{}).FormattedSpeed(); got != "-" {
		t.Errorf("empty FormattedSpeed = %q, want -", got)
	}
}
