// Package config defines the recorder configuration and how it is loaded.
//
// Values are layered, lowest precedence first: defaults, .env file, YAML
// file, CSREC_ environment variables.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TickRate converts demo ticks to seconds.
	TickRate int `koanf:"tick_rate"`

	// SpawnPadSeconds delays the start of a window after a spawn.
	SpawnPadSeconds int `koanf:"spawn_pad_seconds"`

	// DeathPadSeconds extends a window past a death.
	DeathPadSeconds int `koanf:"death_pad_seconds"`

	// Workers bounds how many windows get their runs computed at once.
	Workers int `koanf:"workers"`

	// OutputDir is where the recorder writes clips.
	OutputDir string `koanf:"output_dir"`

	Recorder RecorderConfig `koanf:"recorder"`
	Overlay  OverlayConfig  `koanf:"overlay"`
}

// RecorderConfig holds the video settings passed to the recorder.
type RecorderConfig struct {
	Framerate int    `koanf:"framerate"`
	Width     int    `koanf:"width"`
	Height    int    `koanf:"height"`
	Encoder   string `koanf:"encoder"`
	Container string `koanf:"container"`

	// ConcatMode is how overlay clips are joined: copy or reencode.
	ConcatMode string `koanf:"concat_mode"`
}

// OverlayConfig controls the key overlay.
type OverlayConfig struct {
	HideInactive bool `koanf:"hide_inactive"`
	FontSize     int  `koanf:"fontsize"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		TickRate:        64,
		SpawnPadSeconds: 10,
		DeathPadSeconds: 3,
		Workers:         4,
		OutputDir:       "output",
		Recorder: RecorderConfig{
			Framerate:  60,
			Width:      1920,
			Height:     1080,
			Encoder:    "FFmpeg",
			Container:  "mp4",
			ConcatMode: "copy",
		},
		Overlay: OverlayConfig{
			FontSize: 28,
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	}
	if c.SpawnPadSeconds < 0 || c.DeathPadSeconds < 0 {
		return fmt.Errorf("%w: pads must not be negative", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if c.Recorder.Framerate <= 0 || c.Recorder.Width <= 0 || c.Recorder.Height <= 0 {
		return fmt.Errorf("%w: recorder framerate and dimensions must be positive", ErrInvalidConfig)
	}
	switch c.Recorder.ConcatMode {
	case "copy", "reencode":
	default:
		return fmt.Errorf("%w: recorder concat_mode must be copy or reencode, got %q", ErrInvalidConfig, c.Recorder.ConcatMode)
	}
	return nil
}
