package clock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a [Clock].
//
// In YAML, durations are written the way [time.ParseDuration] reads them:
//
//	frame_interval: 16ms
//	max_frame_delta: 250ms
type Config struct {
	// FrameInterval is how often Run ticks the clock.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// MaxFrameDelta caps the time a single tick of Run advances the clock
	// by, so that a stalled process does not fire a burst of timers when it
	// wakes up. Zero means no cap.
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"`
	// StartTime is the time of a new clock.
	StartTime time.Duration `yaml:"start_time"`
}

// DefaultConfig returns the default configuration: 60 frames per second,
// with a frame advancing the clock by at most 250ms.
func DefaultConfig() Config {
	return Config{
		FrameInterval: time.Second / 60,
		MaxFrameDelta: 250 * time.Millisecond,
	}
}

// Validate reports whether c makes sense.
func (c Config) Validate() error {
	if c.FrameInterval <= 0 {
		return fmt.Errorf("clock: frame_interval must be positive, got %v", c.FrameInterval)
	}
	if c.MaxFrameDelta < 0 {
		return fmt.Errorf("clock: max_frame_delta must not be negative, got %v", c.MaxFrameDelta)
	}
	if c.StartTime < 0 {
		return fmt.Errorf("clock: start_time must not be negative, got %v", c.StartTime)
	}
	return nil
}

// LoadConfig reads a YAML configuration from r. Settings missing from r
// keep their default values.
func LoadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read clock config: %w", err)
	}
	return parseConfig(data)
}

// LoadConfigFile reads a YAML configuration from the file at path.
// A missing file is not an error; the default configuration is returned.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse clock config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
