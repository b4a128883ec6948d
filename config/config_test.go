package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d; want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want info", cfg.LogLevel)
	}
	if cfg.RoundRestartDelaySec != 5 {
		t.Errorf("RoundRestartDelaySec = %d; want 5", cfg.RoundRestartDelaySec)
	}
	if cfg.MaxNameLength != 24 {
		t.Errorf("MaxNameLength = %d; want 24", cfg.MaxNameLength)
	}
	if cfg.LobbyIdleTimeoutSec != 1800 {
		t.Errorf("LobbyIdleTimeoutSec = %d; want 1800", cfg.LobbyIdleTimeoutSec)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ROUND_RESTART_DELAY_SEC", "2")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg := Load()

	if cfg.Port != 9999 {
		t.Errorf("Port = %d; want 9999", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want debug", cfg.LogLevel)
	}
	if cfg.RoundRestartDelaySec != 2 {
		t.Errorf("RoundRestartDelaySec = %d; want 2", cfg.RoundRestartDelaySec)
	}
	if cfg.SessionSecret != "s3cret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.DatabaseURL != "postgres://example" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestInvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d; want default 8080", cfg.Port)
	}
}
