// Package pipeline drives a full analysis run for one user: load evidence,
// classify it section by section, reconcile the findings into stored
// classifications, and finalize the profile snapshot.
package pipeline

import (
	"log/slog"

	"github.com/mosaicintel/mosaic/internal/batch"
	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/oracle"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/reconcile"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
	"github.com/mosaicintel/mosaic/internal/tracking"
)

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed by higher-level composition code from infrastructure and
// domain systems.
type Runtime struct {
	Taxonomy   *taxonomy.Index
	Oracle     oracle.Oracle
	Source     evidence.Source
	Reconciler *reconcile.Reconciler
	Aggregator *classification.Aggregator
	Profiles   *profile.Service
	// Tracking is optional; runs are not recorded when nil.
	Tracking tracking.System

	Batch         batch.Options
	ContextBudget int
	// Sections defaults to every taxonomy section when empty.
	Sections []taxonomy.Section

	Logger *slog.Logger
}

func (rt *Runtime) sections() []taxonomy.Section {
	if len(rt.Sections) > 0 {
		return rt.Sections
	}
	return taxonomy.Sections()
}
