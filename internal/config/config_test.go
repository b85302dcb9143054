package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mystravastats/internal/analysis"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Segmenter defaults
	if cfg.Analysis.GradeThreshold != 3.0 {
		t.Errorf("Analysis.GradeThreshold = %v, want 3", cfg.Analysis.GradeThreshold)
	}
	if cfg.Analysis.MinSlopeDistance != 500 {
		t.Errorf("Analysis.MinSlopeDistance = %v, want 500", cfg.Analysis.MinSlopeDistance)
	}
	if cfg.Analysis.ClimbIndexMin != 3500 {
		t.Errorf("Analysis.ClimbIndexMin = %v, want 3500", cfg.Analysis.ClimbIndexMin)
	}
	if cfg.Analysis.SmoothingWindow != 20 {
		t.Errorf("Analysis.SmoothingWindow = %v, want 20", cfg.Analysis.SmoothingWindow)
	}
	if cfg.Analysis.Selection != "objective" {
		t.Errorf("Analysis.Selection = %q, want objective", cfg.Analysis.Selection)
	}
	if cfg.Analysis.StreakIncludeLastDay {
		t.Error("Analysis.StreakIncludeLastDay should default to false")
	}

	// Display defaults
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}
	if cfg.Display.PaceUnit != "min/km" {
		t.Errorf("Display.PaceUnit = %q, want %q", cfg.Display.PaceUnit, "min/km")
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Strava = StravaConfig{ClientID: "12345", ClientSecret: "abc123secret"}
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{"valid config", func(*Config) {}, ""},
		{"empty client ID", func(c *Config) { c.Strava.ClientID = "" }, "client_id"},
		{"placeholder client ID", func(c *Config) { c.Strava.ClientID = "YOUR_CLIENT_ID" }, "client_id"},
		{"placeholder client secret", func(c *Config) { c.Strava.ClientSecret = "YOUR_CLIENT_SECRET" }, "client_secret"},
		{"both placeholders", func(c *Config) {
			c.Strava.ClientID = "YOUR_CLIENT_ID"
			c.Strava.ClientSecret = "YOUR_CLIENT_SECRET"
		}, "client_id"},
		{"unknown selection", func(c *Config) { c.Analysis.Selection = "fastest" }, "analysis.selection"},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, "analysis.workers"},
		{"negative smoothing", func(c *Config) { c.Analysis.SmoothingWindow = -3 }, "smoothing_window"},
		{"bad distance unit", func(c *Config) { c.Display.DistanceUnit = "furlong" }, "distance_unit"},
		{"bad pace unit", func(c *Config) { c.Display.PaceUnit = "min/furlong" }, "pace_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateAnalysis_NoCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateAnalysis(); err != nil {
		t.Errorf("offline validation should not need credentials: %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("error = %v, want ErrNoConfig", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `strava:
  client_id: "12345"
  client_secret: secret
database:
  path: /tmp/stats.db
analysis:
  selection: distance
  streak_include_last_day: true
  climb_index_min: 5000
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strava.ClientID != "12345" {
		t.Errorf("ClientID = %q", cfg.Strava.ClientID)
	}
	if cfg.Database.Path != "/tmp/stats.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.SelectionRule() != analysis.SelectByDistance {
		t.Errorf("SelectionRule = %v, want distance", cfg.SelectionRule())
	}
	if !cfg.Analysis.StreakIncludeLastDay {
		t.Error("StreakIncludeLastDay should be true")
	}

	seg := cfg.SegmenterConfig()
	if seg.ClimbIndexMin != 5000 {
		t.Errorf("ClimbIndexMin = %v, want 5000", seg.ClimbIndexMin)
	}
	if seg.GradeThreshold != 3.0 || seg.MinDistance != 500 || seg.SmoothingWindow != 20 {
		t.Errorf("missing segmenter values should use defaults, got %+v", seg)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("DistanceUnit = %q, want km", cfg.Display.DistanceUnit)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("strava: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || errors.Is(err, ErrNoConfig) {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestSaveAndCreateExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	created, err := CreateExample(path)
	if err != nil {
		t.Fatalf("CreateExample: %v", err)
	}
	if !created {
		t.Fatal("expected the example to be written")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strava.ClientID != "YOUR_CLIENT_ID" {
		t.Errorf("ClientID = %q, want placeholder", cfg.Strava.ClientID)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("example config should not validate until credentials are filled in")
	}

	// Existing config is left alone
	cfg.Strava.ClientID = "real-id"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	created, err = CreateExample(path)
	if err != nil || created {
		t.Fatalf("CreateExample on existing file = %v, %v; want false, nil", created, err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Strava.ClientID != "real-id" {
		t.Errorf("ClientID = %q, want real-id", reloaded.Strava.ClientID)
	}
}
