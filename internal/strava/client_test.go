package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}))
	c.BaseURL = server.URL
	c.rateLimiter = newRateLimiter(0)
	return c
}

func TestGetAllActivities_Paginates(t *testing.T) {
	var pages []int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/athlete/activities" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("after"); got != "1700000000" {
			t.Errorf("after = %q, want 1700000000", got)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		count := 100
		if page == 2 {
			count = 3
		}
		activities := make([]Activity, count)
		for i := range activities {
			activities[i] = Activity{ID: int64(page*1000 + i), Type: "Ride"}
		}
		w.Header().Set("X-RateLimit-Limit", "100,1000")
		w.Header().Set("X-RateLimit-Usage", fmt.Sprintf("%d,%d", page, 500+page))
		json.NewEncoder(w).Encode(activities)
	})

	var progress []int
	activities, err := c.GetAllActivities(context.Background(), time.Unix(1700000000, 0), func(n int) {
		progress = append(progress, n)
	})
	if err != nil {
		t.Fatalf("GetAllActivities failed: %v", err)
	}
	if len(activities) != 103 {
		t.Errorf("got %d activities, want 103", len(activities))
	}
	if len(pages) != 2 || pages[0] != 1 || pages[1] != 2 {
		t.Errorf("pages requested = %v, want [1 2]", pages)
	}
	if len(progress) != 2 || progress[1] != 103 {
		t.Errorf("progress = %v", progress)
	}

	short, daily := c.RateLimitStatus()
	if short != 98 || daily != 498 {
		t.Errorf("RateLimitStatus = %d, %d; want 98, 498", short, daily)
	}
}

func TestGetActivityStreams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activities/42/streams" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("keys"); got != streamKeys {
			t.Errorf("keys = %q", got)
		}
		if got := r.URL.Query().Get("key_by_type"); got != "true" {
			t.Errorf("key_by_type = %q", got)
		}
		fmt.Fprint(w, `{
			"time": {"data": [0, 1, 2], "series_type": "distance", "original_size": 3, "resolution": "high"},
			"distance": {"data": [0, 5.5, 11.2]},
			"altitude": {"data": [200, 200.5, 201]},
			"watts": {"data": [150, 210, 190]},
			"moving": {"data": [true, true, false]},
			"latlng": {"data": [[45.1, 5.7], [45.2, 5.8], [45.3, 5.9]]}
		}`)
	})

	streams, err := c.GetActivityStreams(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetActivityStreams failed: %v", err)
	}
	if streams.Len() != 3 {
		t.Fatalf("Len = %d, want 3", streams.Len())
	}

	series, err := streams.ToSeries()
	if err != nil {
		t.Fatalf("ToSeries failed: %v", err)
	}
	if series.Distance[2] != 11.2 || series.Power[1] != 210 || series.Moving[2] || series.LatLng[1][1] != 5.8 {
		t.Errorf("unexpected series %+v", series)
	}
	if !series.HasAltitude() || !series.HasPower() {
		t.Error("expected altitude and power")
	}
}

func TestGetActivityStreams_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"nope"}`, tt.status)
			})

			_, err := c.GetActivityStreams(context.Background(), 7)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v (err %v)", !tt.notFound, tt.notFound, err)
			}
		})
	}
}

func TestToSeries(t *testing.T) {
	tests := []struct {
		name    string
		streams Streams
		wantErr bool
	}{
		{
			name: "time and distance only",
			streams: Streams{
				Time:     &StreamData[int]{Data: []int{0, 1}},
				Distance: &StreamData[float64]{Data: []float64{0, 3}},
			},
		},
		{
			name:    "missing distance",
			streams: Streams{Time: &StreamData[int]{Data: []int{0, 1}}},
			wantErr: true,
		},
		{
			name:    "empty",
			streams: Streams{},
			wantErr: true,
		},
		{
			name: "altitude length mismatch",
			streams: Streams{
				Time:     &StreamData[int]{Data: []int{0, 1}},
				Distance: &StreamData[float64]{Data: []float64{0, 3}},
				Altitude: &StreamData[float64]{Data: []float64{100}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := tt.streams.ToSeries()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToSeries error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (series.Altitude != nil || series.Power != nil) {
				t.Errorf("absent streams should be nil, got %+v", series)
			}
		})
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := newRateLimiter(0)
	r.UpdateFromHeaders(http.Header{
		"X-Ratelimit-Limit": []string{"100,1000"},
		"X-Ratelimit-Usage": []string{"100,10"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}
}

func TestRateLimiter_CountsRequests(t *testing.T) {
	r := newRateLimiter(0)
	for i := 0; i < 3; i++ {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	short, daily := r.Status()
	if short != 97 || daily != 997 {
		t.Errorf("Status = %d, %d; want 97, 997", short, daily)
	}
}

func TestParsePair(t *testing.T) {
	if a, b, ok := parsePair("34, 512"); !ok || a != 34 || b != 512 {
		t.Errorf("parsePair = %d, %d, %v", a, b, ok)
	}
	for _, bad := range []string{"", "34", "x,1", "1,y"} {
		if _, _, ok := parsePair(bad); ok {
			t.Errorf("parsePair(%q) should fail", bad)
		}
	}
}
