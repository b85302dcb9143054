package analysis

import (
	"math"
	"testing"
)

func TestEstimateVDOT(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		seconds  int
		want     float64
	}{
		{"5 km in 19:00", 5000, 1140, 50},
		{"5 km in 23:42", 5000, 1422, 40},
		{"10 km in 39:24", 10000, 2364, 50},
		{"half in 1:25:00", DistanceHalfMarathon, 5100, 50},
		{"marathon in 2:54:54", DistanceMarathon, 10494, 50},
		{"mile in 5:44", 1609.34, 344, 50},
		{"5 km halfway between 50 and 51", 5000, 1128, 50.5},
		{"5 km too slow for the table", 5000, 3600, 30},
		{"5 km faster than the table", 5000, 600, 85},
		{"no duration", 5000, 0, 0},
		{"negative duration", 5000, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateVDOT(tt.distance, tt.seconds); got != tt.want {
				t.Errorf("EstimateVDOT(%v, %d) = %v, want %v", tt.distance, tt.seconds, got, tt.want)
			}
		})
	}
}

func TestEstimateVDOT_OffTableDistance(t *testing.T) {
	// 3 km sits between the mile and 5 km columns
	slow := EstimateVDOT(3000, 720)
	fast := EstimateVDOT(3000, 600)
	if slow <= 30 || fast >= 85 || fast <= slow {
		t.Errorf("3 km estimates = %v (12:00), %v (10:00)", slow, fast)
	}
}

func TestPredictRaceTime(t *testing.T) {
	tests := []struct {
		name     string
		vdot     float64
		distance float64
		want     int
	}{
		{"table row", 50, 10000, 2364},
		{"between rows", 50.5, 5000, 1128},
		{"below the table", 20, 5000, 1860},
		{"above the table", 90, DistanceMarathon, 6198},
		{"no vdot", 0, 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PredictRaceTime(tt.vdot, tt.distance); got != tt.want {
				t.Errorf("PredictRaceTime(%v, %v) = %d, want %d", tt.vdot, tt.distance, got, tt.want)
			}
		})
	}
}

func TestPredictRaceTime_RoundTrip(t *testing.T) {
	for _, distance := range []float64{5000, 10000, DistanceHalfMarathon, DistanceMarathon} {
		for _, vdot := range []float64{35, 42.5, 58, 71} {
			back := EstimateVDOT(distance, PredictRaceTime(vdot, distance))
			if math.Abs(back-vdot) > 0.2 {
				t.Errorf("distance %v: %v -> %v", distance, vdot, back)
			}
		}
	}
}

func TestPredictRaces(t *testing.T) {
	races := PredictRaces(50)
	if len(races) != 4 {
		t.Fatalf("got %d predictions, want 4", len(races))
	}
	if races[0].Seconds != 1140 || races[3].Seconds != 10494 {
		t.Errorf("unexpected predictions %+v", races)
	}
	if PredictRaces(0) != nil {
		t.Error("expected no predictions without a VDOT")
	}
}

func TestBestVDOT(t *testing.T) {
	short := &Effort{Distance: 400, Seconds: 60}
	fiveK := &Effort{Distance: 5000, Seconds: 1140}
	tenK := &Effort{Distance: 10000, Seconds: 2412}

	vdot, source := BestVDOT([]*Effort{nil, short, tenK, fiveK})
	if vdot != 50 || source != fiveK {
		t.Errorf("BestVDOT = %v from %+v, want 50 from the 5 km", vdot, source)
	}

	if vdot, source := BestVDOT([]*Effort{short}); vdot != 0 || source != nil {
		t.Errorf("efforts under 1500 m should not count, got %v", vdot)
	}
}

func TestVDOTLevel(t *testing.T) {
	tests := map[float64]string{
		80: "Elite",
		66: "Highly competitive",
		50: "Advanced recreational",
		40: "Intermediate",
		31: "Beginner",
		20: "Novice",
	}
	for vdot, want := range tests {
		if got := VDOTLevel(vdot); got != want {
			t.Errorf("VDOTLevel(%v) = %q, want %q", vdot, got, want)
		}
	}
}
