package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// BadgerPath is the on-disk location of the vote ledger. Empty means
	// an in-memory ledger, which matches its ephemeral contract.
	BadgerPath string

	StabilityWindow time.Duration
	SweepInterval   time.Duration

	DiscordNominationWebhook string
	DiscordQualifiedWebhook  string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "nominator"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		BadgerPath:  os.Getenv("BADGER_PATH"),

		StabilityWindow: envDuration("STABILITY_WINDOW", 24*time.Hour),
		SweepInterval:   envDuration("SWEEP_INTERVAL", time.Hour),

		DiscordNominationWebhook: os.Getenv("DISCORD_NOMINATION_WEBHOOK"),
		DiscordQualifiedWebhook:  os.Getenv("DISCORD_QUALIFIED_WEBHOOK"),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
