// Package config loads the root service configuration: a TOML base file,
// an optional per-environment overlay, environment variable overrides, and
// three-phase finalization (defaults, env, validate) for every sub-config.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mosaicintel/mosaic/internal/memory"
	"github.com/mosaicintel/mosaic/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMosaicEnv             = "MOSAIC_ENV"
	EnvMosaicShutdownTimeout = "MOSAIC_SHUTDOWN_TIMEOUT"
	EnvMosaicVersion         = "MOSAIC_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "MOSAIC_DB_HOST",
	Port:            "MOSAIC_DB_PORT",
	Name:            "MOSAIC_DB_NAME",
	User:            "MOSAIC_DB_USER",
	Password:        "MOSAIC_DB_PASSWORD",
	SSLMode:         "MOSAIC_DB_SSL_MODE",
	MaxOpenConns:    "MOSAIC_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MOSAIC_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MOSAIC_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MOSAIC_DB_CONN_TIMEOUT",
}

var memoryEnv = &memory.Env{
	Backend: "MOSAIC_MEMORY_BACKEND",
	Path:    "MOSAIC_MEMORY_PATH",
}

// Config is the root configuration for the Mosaic service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         StorageConfig   `toml:"storage"`
	Memory          memory.Config   `toml:"memory"`
	Taxonomy        TaxonomyConfig  `toml:"taxonomy"`
	Pipeline        PipelineConfig  `toml:"pipeline"`
	Agent           AgentConfig     `toml:"agent"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the MOSAIC_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMosaicEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Memory.Merge(&overlay.Memory)
	c.Taxonomy.Merge(&overlay.Taxonomy)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Agent.Merge(&overlay.Agent)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Memory.Finalize(memoryEnv); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if err := c.Taxonomy.Finalize(); err != nil {
		return fmt.Errorf("taxonomy: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMosaicShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMosaicVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMosaicEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
