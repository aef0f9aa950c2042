package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml. The timeout values are representative defaults,
// not a standardized contract; deployments tune them per workload.
type Config struct {
	FrameIntervalMS       int `yaml:"frame_interval_ms"`        // 5 (by default)
	UserBlockingTimeoutMS int `yaml:"user_blocking_timeout_ms"` // 250 (by default)
	NormalTimeoutMS       int `yaml:"normal_timeout_ms"`        // 5000 (by default)
	LowTimeoutMS          int `yaml:"low_timeout_ms"`           // 10000 (by default)
	EventBuffer           int `yaml:"event_buffer"`             // 256 (by default)
}

func defaultConfig() Config {
	return Config{
		FrameIntervalMS:       5,
		UserBlockingTimeoutMS: 250,
		NormalTimeoutMS:       5000,
		LowTimeoutMS:          10000,
		EventBuffer:           256,
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.FrameIntervalMS <= 0 {
		cfg.FrameIntervalMS = 5
	}
	if cfg.UserBlockingTimeoutMS <= 0 {
		cfg.UserBlockingTimeoutMS = 250
	}
	if cfg.NormalTimeoutMS <= cfg.UserBlockingTimeoutMS {
		cfg.NormalTimeoutMS = 5000
	}
	if cfg.LowTimeoutMS <= cfg.NormalTimeoutMS {
		cfg.LowTimeoutMS = 10000
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}

	return cfg
}
