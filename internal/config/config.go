// Package config holds the tunable parameters for an exploration run.
// Defaults are production values for the crawler chassis; everything can be
// overridden from a TOML file and then from CRAWLMAP_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all tunable parameters for an exploration run.
type Config struct {
	// === Obstacle avoidance ===
	AlertDistance float64 `toml:"alert_distance"` // Evasive-turn threshold in cm
	BaseSpeed     int     `toml:"base_speed"`     // Nominal gait speed
	MinSpeed      int     `toml:"min_speed"`      // Lower clamp of the adaptive speed
	MaxSpeed      int     `toml:"max_speed"`      // Upper clamp (applies when nothing is in range)
	TurnAngle     float64 `toml:"turn_angle"`     // Turn magnitude in degrees

	// === Timing ===
	PhotoInterval time.Duration `toml:"-"` // How often to run the visual check
	CycleDelay    time.Duration `toml:"-"` // End-of-cycle yield

	// === Place recognition ===
	// MatchDistance and MinGoodMatches are calibrated to ORB's Hamming
	// distance scale. A different descriptor scheme needs new values.
	MatchDistance  float64 `toml:"match_distance"`   // Max descriptor distance for a good match
	MinGoodMatches int     `toml:"min_good_matches"` // Good matches required to call two snapshots similar
	ORBFeatures    int     `toml:"orb_features"`     // Max ORB keypoints per snapshot
	MemoryCap      int     `toml:"memory_cap"`       // Place memory capacity; 0 = unbounded (legacy)

	// === Output ===
	TracePath   string `toml:"trace_path"`   // CSV artifact
	PlotPath    string `toml:"plot_path"`    // PNG artifact
	ArchivePath string `toml:"archive_path"` // SQLite archive; empty disables

	// === Drivers ===
	ChassisURL   string `toml:"chassis_url"`   // Chassis daemon base URL; empty selects mock drivers
	CameraDevice int    `toml:"camera_device"` // Capture device id
	AlertSound   string `toml:"alert_sound"`   // WAV clip for the obstacle alert

	// === Logging ===
	LogLevel string `toml:"log_level"`
}

// Default returns the production configuration for the crawler.
func Default() Config {
	return Config{
		AlertDistance: 15,
		BaseSpeed:     100,
		MinSpeed:      50,
		MaxSpeed:      200,
		TurnAngle:     90,

		PhotoInterval: 10 * time.Second,
		CycleDelay:    200 * time.Millisecond,

		MatchDistance:  50,
		MinGoodMatches: 10,
		ORBFeatures:    500,
		MemoryCap:      64,

		TracePath:   "room_map.csv",
		PlotPath:    "room_map.png",
		ArchivePath: "",

		ChassisURL:   "",
		CameraDevice: 0,
		AlertSound:   "sounds/sign.wav",

		LogLevel: "info",
	}
}

// Validate checks the config values. Returns a list of validation errors,
// or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.AlertDistance <= 0 {
		errors = append(errors, "alert_distance must be positive")
	}
	if c.BaseSpeed <= 0 {
		errors = append(errors, "base_speed must be positive")
	}
	if c.MinSpeed <= 0 {
		errors = append(errors, "min_speed must be positive")
	}
	if c.MaxSpeed < c.MinSpeed {
		errors = append(errors, "max_speed must be >= min_speed")
	}
	if c.TurnAngle <= 0 || c.TurnAngle > 180 {
		errors = append(errors, "turn_angle must be in (0, 180]")
	}
	if c.PhotoInterval <= 0 {
		errors = append(errors, "photo_interval must be positive")
	}
	if c.CycleDelay <= 0 {
		errors = append(errors, "cycle_delay must be positive")
	}
	if c.MatchDistance <= 0 {
		errors = append(errors, "match_distance must be positive")
	}
	if c.MinGoodMatches <= 0 {
		errors = append(errors, "min_good_matches must be positive")
	}
	if c.ORBFeatures <= 0 {
		errors = append(errors, "orb_features must be positive")
	}
	if c.MemoryCap < 0 {
		errors = append(errors, "memory_cap must be >= 0")
	}
	if c.TracePath == "" {
		errors = append(errors, "trace_path must be set")
	}
	if c.PlotPath == "" {
		errors = append(errors, "plot_path must be set")
	}

	return errors
}

// fileConfig adds file-friendly representations of the duration fields.
type fileConfig struct {
	Config
	PhotoIntervalSeconds float64 `toml:"photo_interval_s"`
	CycleDelayMillis     int     `toml:"cycle_delay_ms"`
}

// Load reads a TOML config file on top of the defaults. A missing file is
// not an error: it returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	fc := fileConfig{Config: cfg}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = fc.Config
	if fc.PhotoIntervalSeconds > 0 {
		cfg.PhotoInterval = time.Duration(fc.PhotoIntervalSeconds * float64(time.Second))
	}
	if fc.CycleDelayMillis > 0 {
		cfg.CycleDelay = time.Duration(fc.CycleDelayMillis) * time.Millisecond
	}
	return cfg, nil
}

// FromEnv applies CRAWLMAP_* environment overrides on top of cfg.
func FromEnv(cfg Config) Config {
	envFloat("CRAWLMAP_ALERT_DISTANCE", &cfg.AlertDistance)
	envInt("CRAWLMAP_BASE_SPEED", &cfg.BaseSpeed)
	envInt("CRAWLMAP_MIN_SPEED", &cfg.MinSpeed)
	envInt("CRAWLMAP_MAX_SPEED", &cfg.MaxSpeed)
	envFloat("CRAWLMAP_TURN_ANGLE", &cfg.TurnAngle)
	envDuration("CRAWLMAP_PHOTO_INTERVAL", &cfg.PhotoInterval)
	envDuration("CRAWLMAP_CYCLE_DELAY", &cfg.CycleDelay)
	envFloat("CRAWLMAP_MATCH_DISTANCE", &cfg.MatchDistance)
	envInt("CRAWLMAP_MIN_GOOD_MATCHES", &cfg.MinGoodMatches)
	envInt("CRAWLMAP_ORB_FEATURES", &cfg.ORBFeatures)
	envInt("CRAWLMAP_MEMORY_CAP", &cfg.MemoryCap)
	envString("CRAWLMAP_TRACE_PATH", &cfg.TracePath)
	envString("CRAWLMAP_PLOT_PATH", &cfg.PlotPath)
	envString("CRAWLMAP_ARCHIVE_PATH", &cfg.ArchivePath)
	envString("CRAWLMAP_CHASSIS_URL", &cfg.ChassisURL)
	envInt("CRAWLMAP_CAMERA_DEVICE", &cfg.CameraDevice)
	envString("CRAWLMAP_ALERT_SOUND", &cfg.AlertSound)
	envString("CRAWLMAP_LOG_LEVEL", &cfg.LogLevel)
	return cfg
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
