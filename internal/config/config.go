package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends for round results
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the server. Values come from the
// environment (prefix BLACKJACK_), optionally seeded from a .env file.
type Config struct {
	ListenAddr string `envconfig:"listen_addr" default:":8080"`
	LogLevel   string `envconfig:"log_level" default:"info"`

	// Storage selects the results backend: memory, sqlite or elasticsearch
	Storage    string `envconfig:"storage" default:"memory"`
	SQLitePath string `envconfig:"sqlite_path" default:"data/blackjack.db"`

	ElasticsearchURL      string `envconfig:"elasticsearch_url" default:"http://localhost:9200"`
	ElasticsearchUsername string `envconfig:"elasticsearch_username"`
	ElasticsearchPassword string `envconfig:"elasticsearch_password"`
	ElasticsearchIndex    string `envconfig:"elasticsearch_index" default:"blackjack"`

	// Table defaults
	DefaultStake  int `envconfig:"default_stake" default:"10"`
	StartingChips int `envconfig:"starting_chips" default:"100"`
	MaxPlayers    int `envconfig:"max_players" default:"5"`

	// Idle sessions are reaped after this long without a call
	SessionTTL   time.Duration `envconfig:"session_ttl" default:"24h"`
	ReapInterval time.Duration `envconfig:"reap_interval" default:"1h"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("blackjack", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the configuration for values the server cannot run with
func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite, StorageElasticsearch:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}

	if c.DefaultStake <= 0 {
		return fmt.Errorf("default stake must be positive")
	}
	if c.StartingChips < c.DefaultStake {
		return fmt.Errorf("starting chips must cover at least one stake")
	}
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("max players must be positive")
	}

	return nil
}
