// Package config loads the viewer configuration from a TOML file, falling
// back to built-in defaults when no file exists.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Playback controls the clock and scheduler timing.
type Playback struct {
	// FrameDurationMS is the fixed wall time per recorded frame. All
	// timestep-to-seconds conversions use it uniformly.
	FrameDurationMS int `toml:"frame_duration_ms"`
	// TickIntervalMS is how often the scheduler re-evaluates the clock.
	TickIntervalMS int `toml:"tick_interval_ms"`
}

// Annotation controls the interval editing surface.
type Annotation struct {
	// MinOffset/MaxOffset bound the offset slider in the frontend. Typed
	// offset input is not range-checked; resolution clamps at read time.
	MinOffset int `toml:"min_offset"`
	MaxOffset int `toml:"max_offset"`
}

// Episode controls trajectory loading.
type Episode struct {
	// MaxFrames truncates oversized trajectories on load; 0 keeps all.
	MaxFrames int `toml:"max_frames"`
}

// Library configures the sqlite episode library.
type Library struct {
	// DBPath overrides the default location under the user config dir.
	DBPath string `toml:"db_path"`
}

// Config is the root viewer configuration.
type Config struct {
	Playback   Playback   `toml:"playback"`
	Annotation Annotation `toml:"annotation"`
	Episode    Episode    `toml:"episode"`
	Library    Library    `toml:"library"`
}

// Default returns the built-in configuration: 0.3s frames, display-refresh
// ticks, a [-20, +20] offset window.
func Default() Config {
	return Config{
		Playback:   Playback{FrameDurationMS: 300, TickIntervalMS: 16},
		Annotation: Annotation{MinOffset: -20, MaxOffset: 20},
	}
}

// Load reads the TOML file at path. A missing file is not an error: the
// defaults apply. The result is normalized before being returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize repairs values a hand-edited file can get wrong: non-positive
// durations fall back to defaults and an inverted offset window is
// swapped.
func (c *Config) Normalize() {
	def := Default()
	if c.Playback.FrameDurationMS <= 0 {
		c.Playback.FrameDurationMS = def.Playback.FrameDurationMS
	}
	if c.Playback.TickIntervalMS <= 0 {
		c.Playback.TickIntervalMS = def.Playback.TickIntervalMS
	}
	if c.Annotation.MinOffset > c.Annotation.MaxOffset {
		c.Annotation.MinOffset, c.Annotation.MaxOffset = c.Annotation.MaxOffset, c.Annotation.MinOffset
	}
	if c.Episode.MaxFrames < 0 {
		c.Episode.MaxFrames = 0
	}
}

// FrameDuration returns the per-frame wall time as a duration.
func (c Config) FrameDuration() time.Duration {
	return time.Duration(c.Playback.FrameDurationMS) * time.Millisecond
}

// TickInterval returns the scheduler interval as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickIntervalMS) * time.Millisecond
}

// WriteSample writes the annotated sample configuration to path, refusing
// to clobber an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config %s: %w", path, err)
	}
	return nil
}
