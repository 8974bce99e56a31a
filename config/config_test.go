package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/magiskboy/blog-backend/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/blog")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("GOOGLE_CLIENT_ID", "gid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "gsecret")
	t.Setenv("FACEBOOK_CLIENT_ID", "fid")
	t.Setenv("FACEBOOK_CLIENT_SECRET", "fsecret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Env != "local" || cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("defaults = env=%s port=%s metrics=%s", cfg.Env, cfg.Port, cfg.MetricsPort)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.SessionTokenTTL != 24*time.Hour {
		t.Errorf("SessionTokenTTL = %s, want 24h", cfg.SessionTokenTTL)
	}
	if cfg.LinkTokenTTL != 5*time.Minute {
		t.Errorf("LinkTokenTTL = %s, want 5m", cfg.LinkTokenTTL)
	}
	if cfg.TokenSweepSchedule != "@every 5m" {
		t.Errorf("TokenSweepSchedule = %s", cfg.TokenSweepSchedule)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load() accepted an empty SECRET_KEY")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "too-short")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load() accepted a secret shorter than 32 bytes")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		cfg := config.Config{LogLevel: name}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
