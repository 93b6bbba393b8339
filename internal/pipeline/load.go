package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// LoadNode returns a state node that fetches the user's evidence items from
// the configured source. An empty result is not an error: the run proceeds
// and finalize re-aggregates whatever is already stored.
func LoadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("load: %w", err)
		}

		items, err := rt.Source.Fetch(ctx, as.UserID, as.Since)
		if err != nil {
			return s, fmt.Errorf("load: %w: %w", ErrLoadFailed, err)
		}

		as.Items = items

		rt.Logger.InfoContext(ctx, "load node complete",
			"user", as.UserID,
			"items", len(items),
		)

		return s.Set(KeyAnalysis, *as), nil
	})
}
