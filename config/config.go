package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	RedisURL    string `env:"REDIS_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// BaseURL is the externally visible origin of this service. It is used to
	// build the OAuth redirect URI and the link-confirmation URL.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`

	SecretKey string `env:"SECRET_KEY,required" validate:"required,min=32"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID,required" validate:"required"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET,required" validate:"required"`
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID,required" validate:"required"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET,required" validate:"required"`

	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"24h"`
	LinkTokenTTL    time.Duration `env:"LINK_TOKEN_TTL" envDefault:"5m"`

	// TokenSweepSchedule is a cron expression (robfig/cron standard syntax,
	// @every shorthand allowed) for the alive-set expiry sweep.
	TokenSweepSchedule string `env:"TOKEN_SWEEP_SCHEDULE" envDefault:"@every 5m"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
