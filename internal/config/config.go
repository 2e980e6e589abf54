package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from RAISEHELL_* variables.
type Config struct {
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr       string `env:"GRPC_ADDR" envDefault:":9090"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	PresetDir      string `env:"PRESET_DIR"`
	WatchPresets   bool   `env:"WATCH_PRESETS" envDefault:"true"`

	Limits Limits `envPrefix:"MAX_"`

	// Parallelism is the worker count for the exact enumeration; 1 keeps it
	// on the calling goroutine.
	Parallelism int `env:"PARALLELISM" envDefault:"1"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Limits are caller-imposed bounds on request size. The service refuses
// larger inputs instead of truncating them.
type Limits struct {
	// PoolSize caps exact distributions. The call tree grows
	// combinatorially with the pool; at 21 cards the worst compositions
	// finish well under a second.
	PoolSize    uint32 `env:"POOL_SIZE" envDefault:"21"`
	SimPoolSize uint32 `env:"SIM_POOL_SIZE" envDefault:"250"`
	Triggers    uint32 `env:"TRIGGERS" envDefault:"20"`
	Trials      int    `env:"TRIALS" envDefault:"200000"`
}

// Load parses the environment.
func Load() (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "RAISEHELL_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.Parallelism < 1 {
		return Config{}, fmt.Errorf("RAISEHELL_PARALLELISM must be >= 1, got %d", c.Parallelism)
	}
	return c, nil
}
