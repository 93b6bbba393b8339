// Package infrastructure provides core service initialization for application
// startup. It assembles the shared dependencies (logging, database, memory
// store, taxonomy index, optional blob storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mosaicintel/mosaic/internal/config"
	"github.com/mosaicintel/mosaic/internal/memory"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
	"github.com/mosaicintel/mosaic/pkg/database"
	"github.com/mosaicintel/mosaic/pkg/lifecycle"
	"github.com/mosaicintel/mosaic/pkg/storage"
)

// Infrastructure holds the shared systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, the memory store, the taxonomy index, and the
// optional blob export target. Storage is nil when export is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Memory    memory.Store
	Taxonomy  *taxonomy.Index
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration. It
// initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := memory.New(&cfg.Memory, db.Connection(), logger)
	if err != nil {
		return nil, fmt.Errorf("memory init failed: %w", err)
	}

	index, err := taxonomy.Load(cfg.Taxonomy.SourcePath, cfg.Taxonomy.PurchaseCodesPath, logger)
	if err != nil {
		return nil, fmt.Errorf("taxonomy load failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Memory:    store,
		Taxonomy:  index,
	}

	if cfg.Storage.Enabled {
		blobs, err := storage.New(&cfg.Storage.Blob, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = blobs
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Memory.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("memory start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
