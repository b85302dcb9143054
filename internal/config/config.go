package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mystravastats/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Strava   StravaConfig   `yaml:"strava"`
	Database DatabaseConfig `yaml:"database"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Display  DisplayConfig  `yaml:"display"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AnalysisConfig tunes the statistics engine
type AnalysisConfig struct {
	GradeThreshold       float64 `yaml:"grade_threshold"`
	MinSlopeDistance     float64 `yaml:"min_slope_distance"`
	ClimbIndexMin        float64 `yaml:"climb_index_min"`
	SmoothingWindow      int     `yaml:"smoothing_window"`
	Selection            string  `yaml:"selection"`
	StreakIncludeLastDay bool    `yaml:"streak_include_last_day"`
	Workers              int     `yaml:"workers"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `yaml:"distance_unit"`
	PaceUnit     string `yaml:"pace_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	seg := analysis.DefaultSegmenterConfig()
	return Config{
		Analysis: AnalysisConfig{
			GradeThreshold:   seg.GradeThreshold,
			MinSlopeDistance: seg.MinDistance,
			ClimbIndexMin:    seg.ClimbIndexMin,
			SmoothingWindow:  seg.SmoothingWindow,
			Selection:        analysis.SelectByObjective.String(),
			Workers:          4,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
	}
}

// Load reads the configuration from path, or ~/.mystravastats/config.yaml when path is empty
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Database.Path == "" {
		if dir, err := GetConfigDir(); err == nil {
			c.Database.Path = filepath.Join(dir, "mystravastats.db")
		}
	}
	if c.Analysis.GradeThreshold == 0 {
		c.Analysis.GradeThreshold = defaults.Analysis.GradeThreshold
	}
	if c.Analysis.MinSlopeDistance == 0 {
		c.Analysis.MinSlopeDistance = defaults.Analysis.MinSlopeDistance
	}
	if c.Analysis.ClimbIndexMin == 0 {
		c.Analysis.ClimbIndexMin = defaults.Analysis.ClimbIndexMin
	}
	if c.Analysis.SmoothingWindow == 0 {
		c.Analysis.SmoothingWindow = defaults.Analysis.SmoothingWindow
	}
	if c.Analysis.Selection == "" {
		c.Analysis.Selection = defaults.Analysis.Selection
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = defaults.Analysis.Workers
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if c.Display.PaceUnit == "" {
		c.Display.PaceUnit = defaults.Display.PaceUnit
	}
}

// Save writes the configuration to path, or the default location when path is empty
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists.
// It reports whether a file was written.
func CreateExample(path string) (bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return false, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	example.Database.Path = filepath.Join(filepath.Dir(path), "mystravastats.db")

	if err := Save(path, &example); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return c.ValidateAnalysis()
}

// ValidateAnalysis checks the settings used by offline commands, which don't need credentials
func (c *Config) ValidateAnalysis() error {
	if _, err := analysis.ParseSelectionRule(c.Analysis.Selection); err != nil {
		return fmt.Errorf("analysis.selection: %w", err)
	}
	if c.Analysis.GradeThreshold < 0 {
		return fmt.Errorf("analysis.grade_threshold must not be negative, got %v", c.Analysis.GradeThreshold)
	}
	if c.Analysis.SmoothingWindow < 0 {
		return fmt.Errorf("analysis.smoothing_window must not be negative, got %d", c.Analysis.SmoothingWindow)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative, got %d", c.Analysis.Workers)
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	return nil
}

// SegmenterConfig returns the slope detection parameters
func (c *Config) SegmenterConfig() analysis.SegmenterConfig {
	return analysis.SegmenterConfig{
		GradeThreshold:  c.Analysis.GradeThreshold,
		MinDistance:     c.Analysis.MinSlopeDistance,
		ClimbIndexMin:   c.Analysis.ClimbIndexMin,
		SmoothingWindow: c.Analysis.SmoothingWindow,
	}
}

// SelectionRule returns the configured cross-activity selection rule
func (c *Config) SelectionRule() analysis.SelectionRule {
	rule, err := analysis.ParseSelectionRule(c.Analysis.Selection)
	if err != nil {
		return analysis.SelectByObjective
	}
	return rule
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".mystravastats"), nil
}
