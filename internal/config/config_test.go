package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "teamtask" {
		t.Fatalf("expected default app name, got %q", cfg.AppName)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.JWT.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.JWT.SessionTTL)
	}
	if cfg.Spool.BatchSize != 50 || cfg.Spool.MaxRetry != 3 {
		t.Fatalf("unexpected spool defaults: %+v", cfg.Spool)
	}
	if cfg.Database.URL == "" {
		t.Fatalf("database url should be derived from parts")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SPOOL_DRAIN_INTERVAL", "45")
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/app?sslmode=require")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.HTTP.Port)
	}
	if cfg.JWT.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", cfg.JWT.SessionTTL)
	}
	// Bare integers are read as seconds.
	if cfg.Spool.DrainInterval != 45*time.Second {
		t.Fatalf("expected 45s drain interval, got %v", cfg.Spool.DrainInterval)
	}
	if cfg.Database.URL != "postgres://app:pw@db:5432/app?sslmode=require" {
		t.Fatalf("explicit DATABASE_URL should win, got %q", cfg.Database.URL)
	}
}
