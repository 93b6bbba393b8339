package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// FinalizeNode returns a state node that re-aggregates the user's full set of
// stored records into tiered section decisions, builds the profile document,
// and persists it.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		records, err := rt.Reconciler.Records(ctx, as.UserID)
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}
		as.Records = records

		now := time.Now().UTC()

		candidates := make(map[taxonomy.Section][]classification.Candidate)
		for _, record := range records {
			section, err := taxonomy.ParseSection(record.Section)
			if err != nil {
				rt.Logger.Warn("record has unknown section",
					"user", as.UserID,
					"taxonomy_id", record.TaxonomyID,
					"section", record.Section,
				)
				continue
			}
			candidates[section] = append(candidates[section], record.Candidate(now))
		}

		bySection := make(map[taxonomy.Section]map[string]classification.Tiered, len(candidates))
		for section, cands := range candidates {
			bySection[section] = rt.Aggregator.Apply(cands, section)
		}

		doc := profile.Build(as.UserID, bySection, now)
		if err := rt.Profiles.Save(ctx, doc); err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		as.Profile = &doc

		rt.Logger.InfoContext(ctx, "finalize node complete",
			"user", as.UserID,
			"records", len(records),
		)

		return s.Set(KeyAnalysis, *as), nil
	})
}
