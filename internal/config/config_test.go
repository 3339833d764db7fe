package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Empty dir: no config file, defaults apply.
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Thresholds.Warn != 100 || cfg.Thresholds.Alert != 150 {
		t.Errorf("thresholds: %+v", cfg.Thresholds)
	}
	if cfg.Timeouts.Staleness != 10*time.Second {
		t.Errorf("staleness: %v", cfg.Timeouts.Staleness)
	}
	if cfg.Timeouts.Cooldown != 30*time.Second {
		t.Errorf("cooldown: %v", cfg.Timeouts.Cooldown)
	}
	if cfg.Colors.Base != "#00CC33" {
		t.Errorf("base color: %q", cfg.Colors.Base)
	}
	if cfg.Sensor.Adapter != "hci0" || cfg.Sensor.Demo {
		t.Errorf("sensor: %+v", cfg.Sensor)
	}
	if cfg.GlyphWidth != 6 {
		t.Errorf("glyph width: %d", cfg.GlyphWidth)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
thresholds:
  warn: 120
  alert: 0
timeouts:
  staleness: 30s
  disconnect: 2s
colors:
  warn: "#FF3300"
sensor:
  demo: true
  device: "AA:BB:CC:DD:EE:FF"
logging:
  enabled: true
  rr: true
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Thresholds.Warn != 120 {
		t.Errorf("warn: %d", cfg.Thresholds.Warn)
	}
	if cfg.Thresholds.Alert != 0 {
		t.Errorf("alert: %d, want 0 (disabled)", cfg.Thresholds.Alert)
	}
	if cfg.Timeouts.Staleness != 30*time.Second {
		t.Errorf("staleness: %v", cfg.Timeouts.Staleness)
	}
	if cfg.Timeouts.Disconnect != 2*time.Second {
		t.Errorf("disconnect: %v", cfg.Timeouts.Disconnect)
	}
	// Unset keys keep their defaults.
	if cfg.Timeouts.Check != time.Second {
		t.Errorf("check: %v", cfg.Timeouts.Check)
	}
	if cfg.Colors.Base != "#00CC33" || cfg.Colors.Warn != "#FF3300" {
		t.Errorf("colors: %+v", cfg.Colors)
	}
	if !cfg.Sensor.Demo || cfg.Sensor.Device != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("sensor: %+v", cfg.Sensor)
	}
	if !cfg.Logging.Enabled || !cfg.Logging.RR {
		t.Errorf("logging: %+v", cfg.Logging)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("thresholds: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
