package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.SessionIdleMinutes != 30 {
		t.Fatalf("SessionIdleMinutes = %d, want 30", cfg.SessionIdleMinutes)
	}
	if cfg.SessionMaxHours != 12 {
		t.Fatalf("SessionMaxHours = %d, want 12", cfg.SessionMaxHours)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_IDLE_MINUTES", "5")
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.SessionIdleMinutes != 5 {
		t.Fatalf("SessionIdleMinutes = %d, want 5", cfg.SessionIdleMinutes)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
}

func TestValidateReleaseMode(t *testing.T) {
	cfg := &Config{
		GinMode:            "release",
		SessionIdleMinutes: 30,
		SessionMaxHours:    12,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing SESSION_SECRET in release mode")
	}

	cfg.SessionSecret = "secret"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing REDIS_URL in release mode")
	}

	cfg.RedisURL = "redis://127.0.0.1:6379/0"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateTimeouts(t *testing.T) {
	cfg := &Config{GinMode: "debug", SessionIdleMinutes: 0, SessionMaxHours: 12}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive SESSION_IDLE_MINUTES")
	}

	cfg = &Config{GinMode: "debug", SessionIdleMinutes: 30, SessionMaxHours: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive SESSION_MAX_HOURS")
	}
}

func TestGetEnvAsIntInvalid(t *testing.T) {
	t.Setenv("SESSION_IDLE_MINUTES", "not-a-number")

	if v := getEnvAsInt("SESSION_IDLE_MINUTES", 30); v != 30 {
		t.Fatalf("getEnvAsInt = %d, want fallback 30", v)
	}
}
