// Package config loads the optional YAML settings file. Command-line flags
// are applied on top by the caller.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FPS          int            `yaml:"fps"`
	Speed        float64        `yaml:"speed"`
	Paused       bool           `yaml:"paused"`
	DefaultFocus string         `yaml:"default_focus"`
	Transition   time.Duration  `yaml:"transition"`
	Labels       bool           `yaml:"labels"`
	Stars        StarsConfig    `yaml:"stars"`
	MiniView     MiniViewConfig `yaml:"mini_view"`
	TextureDir   string         `yaml:"texture_dir"`
	BodiesFile   string         `yaml:"bodies_file"`
	MaxEvents    int            `yaml:"max_events"`
	Log          LogConfig      `yaml:"log"`
}

type StarsConfig struct {
	Enable    *bool   `yaml:"enable"`
	Count     int     `yaml:"count"`
	Seed      uint64  `yaml:"seed"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
}

// Enabled reports whether the starfield is drawn; unset means yes.
func (s StarsConfig) Enabled() bool {
	return s.Enable == nil || *s.Enable
}

type MiniViewConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	SpinFactor float64 `yaml:"spin_factor"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads path and fills in defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1
	}
	if cfg.DefaultFocus == "" {
		cfg.DefaultFocus = "earth"
	}
	if cfg.Transition == 0 {
		cfg.Transition = 2500 * time.Millisecond
	}
	if cfg.Stars.Count <= 0 {
		cfg.Stars.Count = 15000
	}
	if cfg.Stars.Seed == 0 {
		cfg.Stars.Seed = 1
	}
	if cfg.Stars.MinRadius <= 0 {
		cfg.Stars.MinRadius = 2000
	}
	if cfg.Stars.MaxRadius <= 0 {
		cfg.Stars.MaxRadius = 4500
	}
	if cfg.MiniView.Width <= 0 {
		cfg.MiniView.Width = 36
	}
	if cfg.MiniView.Height <= 0 {
		cfg.MiniView.Height = 16
	}
	if cfg.MiniView.SpinFactor == 0 {
		cfg.MiniView.SpinFactor = 0.3
	}
	if cfg.TextureDir == "" {
		cfg.TextureDir = "textures"
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate rejects settings that cannot be clamped into range.
func (c Config) Validate() error {
	if c.FPS > 120 {
		return fmt.Errorf("fps must be <= 120, got %d", c.FPS)
	}
	if math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("speed must be finite, got %v", c.Speed)
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must be > 0")
	}
	if c.Transition < 0 {
		return fmt.Errorf("transition must be >= 0")
	}
	if c.Stars.MaxRadius < c.Stars.MinRadius {
		return fmt.Errorf("stars.max_radius must be >= stars.min_radius")
	}
	if c.MiniView.SpinFactor < 0 {
		return fmt.Errorf("mini_view.spin_factor must be >= 0")
	}
	return nil
}

// FrameInterval returns the tick period for FPS.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
