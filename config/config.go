// Package config loads planner configuration from a YAML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for the CLI and any embedding service.
type Config struct {
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Planner PlannerConfig `yaml:"planner"`
	Store   StoreConfig   `yaml:"store"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// OpenAIConfig configures the model backend. APIKey is normally left out
// of the file and supplied via OPENAI_API_KEY.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// PlannerConfig tunes the workflow.
type PlannerConfig struct {
	// CallTimeout bounds each model and collaborator call.
	CallTimeout time.Duration `yaml:"call_timeout"`
	// Seed feeds the mock search backends.
	Seed int64 `yaml:"seed"`
}

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	// Type is one of memory, sqlite, redis, postgres.
	Type string `yaml:"type"`

	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Planner: PlannerConfig{
			CallTimeout: 30 * time.Second,
			Seed:        42,
		},
		Store:    StoreConfig{Type: "memory"},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path on top of the defaults. Environment
// variables win over file values for secrets.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store.Type {
	case "memory", "":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("config: store type sqlite requires sqlite_path")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("config: store type redis requires redis_addr")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("config: store type postgres requires postgres_dsn")
		}
	default:
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}
	return nil
}
