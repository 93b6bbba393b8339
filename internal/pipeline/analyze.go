package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaicintel/mosaic/internal/batch"
	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/oracle"
	"github.com/mosaicintel/mosaic/internal/reconcile"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// AnalyzeNode returns a state node that classifies the loaded evidence
// against every section. Sections fan out concurrently; within a section the
// evidence is walked in token-budgeted batches, each sent to the oracle with
// that section's taxonomy context.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		if len(as.Items) == 0 {
			rt.Logger.InfoContext(ctx, "analyze node skipped, no evidence", "user", as.UserID)
			return s.Set(KeyAnalysis, *as), nil
		}

		var mu sync.Mutex
		observations := make([]reconcile.Observation, 0)

		g, gctx := errgroup.WithContext(ctx)
		for _, section := range rt.sections() {
			g.Go(func() error {
				obs, err := rt.analyzeSection(gctx, section, as.Items)
				if err != nil {
					return fmt.Errorf("section %s: %w", section, err)
				}

				mu.Lock()
				observations = append(observations, obs...)
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("analyze: %w: %w", ErrAnalyzeFailed, err)
		}

		as.Observations = observations

		rt.Logger.InfoContext(ctx, "analyze node complete",
			"user", as.UserID,
			"observations", len(observations),
		)

		return s.Set(KeyAnalysis, *as), nil
	})
}

func (rt *Runtime) newBatchState(items []evidence.Item, logger *slog.Logger) *batch.State {
	return batch.NewState(items, rt.ContextBudget, rt.Batch, logger)
}

func (rt *Runtime) analyzeSection(ctx context.Context, section taxonomy.Section, items []evidence.Item) ([]reconcile.Observation, error) {
	taxonomyContext := rt.Taxonomy.Context(section)
	logger := rt.Logger.With("section", section.String())

	cursor := rt.newBatchState(items, logger)
	observations := make([]reconcile.Observation, 0)

	for cursor.HasMore() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		chunk := cursor.Batch()

		findings, err := rt.Oracle.Classify(ctx, section, taxonomyContext, chunk)
		if err != nil {
			return nil, err
		}

		observations = append(observations, rt.toObservations(section, findings, chunk, logger)...)
		cursor.Advance()
	}

	return observations, nil
}

// toObservations validates findings against the taxonomy and expands each
// into one observation per cited evidence item, so every supporting email
// counts as its own piece of evidence during reconciliation.
func (rt *Runtime) toObservations(section taxonomy.Section, findings []oracle.Finding, chunk []evidence.Item, logger *slog.Logger) []reconcile.Observation {
	observations := make([]reconcile.Observation, 0, len(findings))

	for _, f := range findings {
		entry, ok := rt.Taxonomy.Get(f.TaxonomyID)
		if !ok {
			logger.Warn("finding references unknown taxonomy id", "taxonomy_id", f.TaxonomyID)
			continue
		}

		base := reconcile.Observation{
			TaxonomyID:         f.TaxonomyID,
			Section:            section,
			Value:              f.Value,
			Strength:           f.Confidence,
			CategoryPath:       entry.Path(),
			GroupingTier:       string(entry.GroupingTier),
			GroupingValue:      entry.GroupingValue,
			TierDepth:          entry.Depth(),
			Reasoning:          f.Reasoning,
			PurchaseIntentFlag: f.PurchaseIntentFlag,
		}

		if len(f.EvidenceNumbers) == 0 {
			observations = append(observations, base)
			continue
		}

		for _, n := range f.EvidenceNumbers {
			obs := base
			obs.EvidenceID = chunk[n-1].ID.String()
			observations = append(observations, obs)
		}
	}

	return observations
}
