package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDSNAndSecret(t *testing.T) {
	t.Setenv("TOLLWAY_POSTGRES_DSN", "")
	t.Setenv("TOLLWAY_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without database DSN")
	}

	t.Setenv("TOLLWAY_POSTGRES_DSN", "postgres://localhost/tollway")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("TOLLWAY_POSTGRES_DSN", "postgres://localhost/tollway")
	t.Setenv("TOLLWAY_JWT_SECRET", "shh")
	t.Setenv("TOLLWAY_REDIS_RANKINGS_TTL", "30s")
	t.Setenv("TOLLWAY_HTTP_PORT", "8123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddress() != ":8123" {
		t.Fatalf("expected :8123, got %q", cfg.HTTPAddress())
	}
	if cfg.Redis.RankingsTTL != 30*time.Second {
		t.Fatalf("expected 30s rankings TTL, got %s", cfg.Redis.RankingsTTL)
	}
	if cfg.JWTExpiration() != 2*time.Hour {
		t.Fatalf("expected default 2h expiry, got %s", cfg.JWTExpiration())
	}
	if cfg.DataPath(cfg.Data.Stations) != "data/tollstations.csv" {
		t.Fatalf("unexpected stations path %q", cfg.DataPath(cfg.Data.Stations))
	}
}

func TestLoadDatabasePoolSetting(t *testing.T) {
	t.Setenv("TOLLWAY_POSTGRES_DSN", "postgres://localhost/tollway")
	t.Setenv("TOLLWAY_JWT_SECRET", "shh")
	t.Setenv("TOLLWAY_POSTGRES_MAX_OPEN_CONNS", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.MaxOpenConns != 40 {
		t.Fatalf("expected 40 max open conns, got %d", cfg.Database.MaxOpenConns)
	}

	t.Setenv("TOLLWAY_POSTGRES_MAX_OPEN_CONNS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative pool size")
	}
}
