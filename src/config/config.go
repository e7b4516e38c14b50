// Package config provides configuration management for the sysdoctor application.
package config

import (
	"os"
	"strings"
)

// DefaultJournalSince is the journal window used when JOURNAL_SINCE is unset.
const DefaultJournalSince = "24 hours ago"

// Config holds the application configuration.
type Config struct {
	// JournalSince is the journalctl --since window for the journal source.
	JournalSince string

	// RedpandaBrokers enables agentic mode when non-empty.
	// Comma-separated list, e.g. "localhost:19092".
	RedpandaBrokers []string

	// PostgresDSN is the connection string for the Postgres store.
	// Only used in agentic mode.
	PostgresDSN string

	// VendorOverride forces the thermal profile vendor ("amd" or "intel").
	// Empty means detect from /proc/cpuinfo.
	VendorOverride string

	// GenerationOverride forces the AMD generation ("modern" or "legacy").
	GenerationOverride string
}

// LoadFromEnv loads configuration from environment variables.
// All values are optional; agentic mode is entered only when
// REDPANDA_BROKERS is set.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		JournalSince:       os.Getenv("JOURNAL_SINCE"),
		PostgresDSN:        os.Getenv("DATABASE_URL"),
		VendorOverride:     strings.ToLower(os.Getenv("SYSDOCTOR_VENDOR")),
		GenerationOverride: strings.ToLower(os.Getenv("SYSDOCTOR_GENERATION")),
	}

	if cfg.JournalSince == "" {
		cfg.JournalSince = DefaultJournalSince
	}

	if brokers := os.Getenv("REDPANDA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			b = strings.TrimSpace(b)
			if b != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, b)
			}
		}
	}

	return cfg, nil
}
