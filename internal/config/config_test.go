package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "speed: 2.5\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Speed != 2.5 {
		t.Fatalf("speed=%v want 2.5", cfg.Speed)
	}
	if cfg.FPS != 30 || cfg.DefaultFocus != "earth" || cfg.Transition != 2500*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Stars.Count != 15000 || !cfg.Stars.Enabled() {
		t.Fatalf("stars=%+v want 15000 enabled", cfg.Stars)
	}
	if cfg.MiniView.SpinFactor != 0.3 {
		t.Fatalf("spin_factor=%v want 0.3", cfg.MiniView.SpinFactor)
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Fatalf("frame interval=%s", cfg.FrameInterval())
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
fps: 60
default_focus: mars
transition: 1s
stars:
  enable: false
mini_view:
  width: 20
  height: 10
log:
  file: /tmp/orrery.log
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FPS != 60 || cfg.DefaultFocus != "mars" || cfg.Transition != time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Stars.Enabled() {
		t.Fatal("stars.enable=false ignored")
	}
	if cfg.MiniView.Width != 20 || cfg.MiniView.Height != 10 {
		t.Fatalf("mini_view=%+v", cfg.MiniView)
	}
	if cfg.Log.File != "/tmp/orrery.log" || cfg.Log.Level != "debug" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"fps", "fps: 500\n"},
		{"speed", "speed: -1\n"},
		{"speed nan", "speed: .nan\n"},
		{"speed inf", "speed: .inf\n"},
		{"transition", "transition: -1s\n"},
		{"star shell", "stars:\n  min_radius: 100\n  max_radius: 50\n"},
		{"spin", "mini_view:\n  spin_factor: -0.1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeTempConfig(t, tc.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_NonFiniteSpeed(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := Default()
		cfg.Speed = v
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() with speed %v: expected error", v)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(writeTempConfig(t, "fps: [\n")); err == nil {
		t.Fatal("expected parse error")
	}
}
