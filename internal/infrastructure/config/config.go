package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=change-me"`
	TokenTTL  time.Duration `env:"SESSION_TTL, default=12h"`

	// PasswordScheme is "bcrypt" or "legacy" (reversible base64).
	PasswordScheme string `env:"PASSWORD_SCHEME, default=bcrypt"`
	SeedDemo       bool   `env:"SEED_DEMO,       default=true"`
	ReportWorkers  int    `env:"REPORT_WORKERS,  default=4"`

	// MetricsFile, when set, receives the Prometheus counters in text
	// exposition format on exit (node-exporter textfile collector).
	MetricsFile string `env:"METRICS_FILE"`
}

// Production reports whether logs should be emitted as plain JSON.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
