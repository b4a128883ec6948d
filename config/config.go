package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server parameters. Game rules (deck
// composition, player limits) are fixed by the game package and not
// configurable.
type Config struct {
	Port          int    `json:"port"`
	LogLevel      string `json:"log_level"`
	MaxNameLength int    `json:"max_name_length"`

	// RoundRestartDelaySec is the pause between a round ending and the next
	// one being dealt automatically.
	RoundRestartDelaySec int `json:"round_restart_delay_sec"`

	// LobbyIdleTimeoutSec is how long an inactive lobby survives before
	// eviction; LobbyEvictionIntervalSec is how often the sweep runs.
	LobbyIdleTimeoutSec      int `json:"lobby_idle_timeout_sec"`
	LobbyEvictionIntervalSec int `json:"lobby_eviction_interval_sec"`

	// SessionSecret signs guest session tokens. Must be set via env in
	// production; never read from config.json.
	SessionSecret string `json:"-"`

	// DatabaseURL enables the optional round-history store when non-empty.
	DatabaseURL string `json:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Port:                     8080,
		LogLevel:                 "info",
		MaxNameLength:            24,
		RoundRestartDelaySec:     5,
		LobbyIdleTimeoutSec:      1800,
		LobbyEvictionIntervalSec: 60,
	}
}

// Load reads configuration from an optional config.json file, then applies
// environment variable overrides. Fields not set in either source retain
// their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.Port, "PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.RoundRestartDelaySec, "ROUND_RESTART_DELAY_SEC")
	overrideInt(&cfg.LobbyIdleTimeoutSec, "LOBBY_IDLE_TIMEOUT_SEC")
	overrideInt(&cfg.LobbyEvictionIntervalSec, "LOBBY_EVICTION_INTERVAL_SEC")
	overrideString(&cfg.SessionSecret, "SESSION_SECRET")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
