// Package config loads the pulsewatch configuration: thresholds,
// timeouts, colors and sensor selection. Values come from an optional
// YAML file, PULSEWATCH_* environment variables and flag overrides,
// in that order of increasing priority.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName    = "PULSEWATCH"
	AppVersion = "1.0"

	// Non-user tunables.
	MockInterval   = 1 * time.Second // synthetic reading cadence
	HistorySize    = 120             // BPM samples kept for the sparkline
	BackoffBase    = 1 * time.Second // first reconnect delay
	BackoffCap     = 30 * time.Second
	MaxReconnects  = 5
	DefaultDataDir = ".pulsewatch"
)

// Thresholds for warn/alert status. A level <= 0 disables it.
type Thresholds struct {
	Warn  int `mapstructure:"warn"`
	Alert int `mapstructure:"alert"`
}

// Timeouts drive the watchdog and the disconnect overlay.
type Timeouts struct {
	Staleness  time.Duration `mapstructure:"staleness"`
	Check      time.Duration `mapstructure:"check"`
	Disconnect time.Duration `mapstructure:"disconnect"`
	Cooldown   time.Duration `mapstructure:"alert_cooldown"`
}

// Colors are RGB hex strings for the badge.
type Colors struct {
	Base string `mapstructure:"base"`
	Warn string `mapstructure:"warn"`
}

// Sensor selects and parameterizes the backend.
type Sensor struct {
	Demo    bool   `mapstructure:"demo"`
	Adapter string `mapstructure:"adapter"`
	Device  string `mapstructure:"device"` // MAC address, empty = first HR device
}

// Logging controls the optional persistence sinks.
type Logging struct {
	Enabled bool   `mapstructure:"enabled"`
	RR      bool   `mapstructure:"rr"`
	Dir     string `mapstructure:"dir"`
}

// Config is the read-only configuration snapshot consumed by the core.
type Config struct {
	Thresholds Thresholds `mapstructure:"thresholds"`
	Timeouts   Timeouts   `mapstructure:"timeouts"`
	Colors     Colors     `mapstructure:"colors"`
	Sensor     Sensor     `mapstructure:"sensor"`
	Logging    Logging    `mapstructure:"logging"`
	GlyphWidth int        `mapstructure:"glyph_width"`
}

// Load reads config.yaml from path (and the working directory) if
// present, applying defaults for anything missing. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("PULSEWATCH")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("thresholds.warn", 100)
	v.SetDefault("thresholds.alert", 150)
	v.SetDefault("timeouts.staleness", "10s")
	v.SetDefault("timeouts.check", "1s")
	v.SetDefault("timeouts.disconnect", "5s")
	v.SetDefault("timeouts.alert_cooldown", "30s")
	v.SetDefault("colors.base", "#00CC33")
	v.SetDefault("colors.warn", "#FFAA00")
	v.SetDefault("sensor.demo", false)
	v.SetDefault("sensor.adapter", "hci0")
	v.SetDefault("sensor.device", "")
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.rr", false)
	v.SetDefault("logging.dir", "")
	v.SetDefault("glyph_width", 6)
}
