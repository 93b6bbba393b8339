package api

import (
	"github.com/mosaicintel/mosaic/internal/config"
	"github.com/mosaicintel/mosaic/internal/infrastructure"
	"github.com/mosaicintel/mosaic/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      config.AgentConfig
	Pipeline   config.PipelineConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Memory:    infra.Memory,
			Taxonomy:  infra.Taxonomy,
			Storage:   infra.Storage,
		},
		Agent:      cfg.Agent,
		Pipeline:   cfg.Pipeline,
		Pagination: cfg.API.Pagination,
	}
}
