package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DefaultWorkingDays != 22 {
		t.Fatalf("expected 22 default working days, got %d", cfg.DefaultWorkingDays)
	}
	if cfg.JWTTTL != 12*time.Hour {
		t.Fatalf("expected 12h token ttl, got %s", cfg.JWTTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9999")
	t.Setenv("DEFAULT_WORKING_DAYS", "26")
	t.Setenv("RUN_SEED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.Addr != ":9999" {
		t.Fatalf("expected :9999, got %q", cfg.Addr)
	}
	if cfg.DefaultWorkingDays != 26 {
		t.Fatalf("expected 26, got %d", cfg.DefaultWorkingDays)
	}
	if cfg.RunSeed {
		t.Fatal("expected RunSeed false")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	cfg.DatabaseURL = "postgres://localhost/hrms"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for production without JWT_SECRET")
	}

	cfg.JWTSecret = "secret"
	cfg.DefaultWorkingDays = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero working days")
	}
}
