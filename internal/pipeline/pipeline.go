package pipeline

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/tracking"
)

// Result is the outcome of one analysis run.
type Result struct {
	UserID          string           `json:"user_id"`
	EmailsProcessed int              `json:"emails_processed"`
	Added           int              `json:"classifications_added"`
	Updated         int              `json:"classifications_updated"`
	Profile         *profile.Document `json:"profile,omitempty"`
	Run             *tracking.Run    `json:"run,omitempty"`
	CompletedAt     time.Time        `json:"completed_at"`
}

// Execute runs the analysis graph (load → analyze → reconcile → finalize)
// for one user, considering evidence received since the given time. The run
// is recorded to the tracking system, including failed runs, when tracking
// is configured.
func Execute(ctx context.Context, rt *Runtime, userID string, since time.Time) (*Result, error) {
	startedAt := time.Now().UTC()

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil).Set(KeyAnalysis, AnalysisState{
		UserID:    userID,
		Since:     since,
		StartedAt: startedAt,
	})

	final, execErr := graph.Execute(ctx, initial)
	if execErr != nil {
		rt.recordRun(ctx, userID, nil, startedAt, execErr)
		return nil, fmt.Errorf("execute graph: %w", execErr)
	}

	as, err := extractAnalysis(final)
	if err != nil {
		return nil, err
	}

	run := rt.recordRun(ctx, userID, as, startedAt, nil)

	return &Result{
		UserID:          userID,
		EmailsProcessed: len(as.Items),
		Added:           as.Added,
		Updated:         as.Updated,
		Profile:         as.Profile,
		Run:             run,
		CompletedAt:     time.Now().UTC(),
	}, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("mosaic-analysis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("load", LoadNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("reconcile", ReconcileNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("load", "analyze", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("analyze", "reconcile", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("reconcile", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("load"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func (rt *Runtime) recordRun(ctx context.Context, userID string, as *AnalysisState, startedAt time.Time, execErr error) *tracking.Run {
	if rt.Tracking == nil {
		return nil
	}

	completedAt := time.Now().UTC()
	run := tracking.Run{
		UserID:      userID,
		Status:      tracking.StatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: &completedAt,
	}

	if as != nil {
		run.EmailsProcessed = len(as.Items)
		run.ClassificationsAdded = as.Added
		run.ClassificationsUpdated = as.Updated
	}

	if execErr != nil {
		run.Status = tracking.StatusFailed
		msg := execErr.Error()
		run.Error = &msg
	}

	recorded, err := rt.Tracking.Record(ctx, run)
	if err != nil {
		rt.Logger.Error("run tracking failed", "user", userID, "error", err)
		return nil
	}

	return recorded
}
