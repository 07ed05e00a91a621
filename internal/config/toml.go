// Package config loads speedster settings from TOML and resolves XDG paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/speedster/internal/model"
)

// Defaults for timer and stats settings.
const (
	DefaultCountdown        = 5
	DefaultSampleIntervalMs = 10
	DefaultScrambleLength   = 25
	DefaultSound            = true
	DefaultAverageWindow    = 5
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
	Stats StatsConfig `toml:"stats"`
}

// TimerConfig maps timer settings. Nil fields were not set in the file.
type TimerConfig struct {
	Countdown        *int  `toml:"countdown"`
	SampleIntervalMs *int  `toml:"sample-interval-ms"`
	ScrambleLength   *int  `toml:"scramble-length"`
	Sound            *bool `toml:"sound"`
	AverageWindow    *int  `toml:"average-window"`
}

// StatsConfig maps stats view settings.
type StatsConfig struct {
	Window *int `toml:"window"`
	Last   *int `toml:"last"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults returns the timer settings used when nothing is configured.
func Defaults() model.Config {
	return model.Config{
		Countdown:      DefaultCountdown,
		SampleInterval: DefaultSampleIntervalMs * time.Millisecond,
		ScrambleLength: DefaultScrambleLength,
		Sound:          DefaultSound,
		AverageWindow:  DefaultAverageWindow,
	}
}

// Validate rejects settings the timer cannot run with.
func Validate(cfg model.Config) error {
	var errs []error
	if cfg.Countdown <= 0 {
		errs = append(errs, errors.New("countdown must be > 0"))
	}
	if cfg.SampleInterval <= 0 {
		errs = append(errs, errors.New("sample interval must be > 0"))
	}
	if cfg.ScrambleLength <= 0 {
		errs = append(errs, errors.New("scramble length must be > 0"))
	}
	if cfg.AverageWindow <= 0 {
		errs = append(errs, errors.New("average window must be > 0"))
	}
	return errors.Join(errs...)
}

// Template returns the commented config written by `speedster config`.
func Template() string {
	return fmt.Sprintf(`# speedster configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# countdown = %d               # Countdown steps before timing starts
# sample-interval-ms = %d      # Refresh cadence of the running time
# scramble-length = %d         # Moves per scramble
# sound = %t                 # Play a cue when timing starts
# average-window = %d          # Solves in the trailing average

[stats]
# window = %d                  # Rolling average window for the chart
# last = 0                    # Limit stats to the last N solves (0 = all)
`,
		DefaultCountdown,
		DefaultSampleIntervalMs,
		DefaultScrambleLength,
		DefaultSound,
		DefaultAverageWindow,
		DefaultAverageWindow,
	)
}
