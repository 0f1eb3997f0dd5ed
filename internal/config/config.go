// Package config loads service configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// Config is everything cmd/server needs, populated from DAYBOOK_* variables.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	Backend         string `envconfig:"BACKEND" default:"memory"`
	SheetID         string `envconfig:"SHEET_ID"`
	CredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE"`
	PostgresDSN     string `envconfig:"POSTGRES_DSN"`

	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"2m"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"2s"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"voucher_appended"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("daybook", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	switch cfg.Backend {
	case BackendMemory, BackendSheets, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if cfg.Backend == BackendSheets && cfg.SheetID == "" {
		return Config{}, fmt.Errorf("DAYBOOK_SHEET_ID is required for the sheets backend")
	}
	if cfg.Backend == BackendPostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("DAYBOOK_POSTGRES_DSN is required for the postgres backend")
	}
	return cfg, nil
}
