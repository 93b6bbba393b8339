package memory

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
)

// Backend names.
const (
	BackendInMemory = "inmemory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config selects and parameterizes the memory store backend.
type Config struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Backend string
	Path    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendInMemory
	}
	if c.Path == "" {
		c.Path = "data/memory"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Backend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(env.Path); v != "" {
		c.Path = v
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendInMemory, BackendBadger, BackendPostgres:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
}

// New creates the configured Store. db is required only for the postgres
// backend.
func New(cfg *Config, db *sql.DB, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendInMemory:
		return NewInMemory(), nil
	case BackendBadger:
		return NewBadger(cfg.Path, logger)
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("%w: postgres backend requires a database connection", ErrInvalidBackend)
		}
		return NewPostgres(db, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}
}
