package api

import (
	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/oracle"
	"github.com/mosaicintel/mosaic/internal/pipeline"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/reconcile"
	"github.com/mosaicintel/mosaic/internal/tracking"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Tracking tracking.System
	Inbox    *evidence.StoreSource
	Profiles *profile.Service
	Pipeline *pipeline.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(rt *Runtime) *Domain {
	trackingSystem := tracking.New(
		rt.Database.Connection(),
		rt.Logger,
		rt.Pagination,
	)

	inbox := evidence.NewStoreSource(rt.Memory, rt.Logger)
	profiles := profile.NewService(rt.Memory, rt.Storage, rt.Logger)

	pipelineRuntime := &pipeline.Runtime{
		Taxonomy:      rt.Taxonomy,
		Oracle:        oracle.NewAgent(rt.Agent, rt.Logger),
		Source:        inbox,
		Reconciler:    reconcile.New(rt.Memory, rt.Logger),
		Aggregator:    classification.NewAggregator(rt.Taxonomy, rt.Logger, classification.DefaultOptions()),
		Profiles:      profiles,
		Tracking:      trackingSystem,
		Batch:         rt.Pipeline.BatchOptions(),
		ContextBudget: rt.Pipeline.ContextBudget,
		Logger:        rt.Logger,
	}

	return &Domain{
		Tracking: trackingSystem,
		Inbox:    inbox,
		Profiles: profiles,
		Pipeline: pipelineRuntime,
	}
}
