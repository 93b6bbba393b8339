package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ReconcileNode returns a state node that folds the run's observations into
// the user's stored classification records, tracking how many records were
// created versus updated.
func ReconcileNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("reconcile: %w", err)
		}

		existing, err := rt.Reconciler.Records(ctx, as.UserID)
		if err != nil {
			return s, fmt.Errorf("reconcile: %w: %w", ErrReconcileFailed, err)
		}

		existingIDs := make(map[int]bool, len(existing))
		for _, record := range existing {
			existingIDs[record.TaxonomyID] = true
		}

		added := make(map[int]bool)
		updated := make(map[int]bool)

		for _, obs := range as.Observations {
			if _, err := rt.Reconciler.Reconcile(ctx, as.UserID, obs); err != nil {
				rt.Logger.Warn("observation rejected",
					"user", as.UserID,
					"taxonomy_id", obs.TaxonomyID,
					"error", err,
				)
				continue
			}

			if existingIDs[obs.TaxonomyID] || added[obs.TaxonomyID] {
				updated[obs.TaxonomyID] = true
			} else {
				added[obs.TaxonomyID] = true
			}
		}

		as.Added = len(added)
		as.Updated = len(updated)

		rt.Logger.InfoContext(ctx, "reconcile node complete",
			"user", as.UserID,
			"added", as.Added,
			"updated", as.Updated,
		)

		return s.Set(KeyAnalysis, *as), nil
	})
}
