package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/reconcile"
)

// KeyAnalysis is the state key carrying AnalysisState through the graph.
const KeyAnalysis = "analysis"

var (
	ErrLoadFailed      = errors.New("load failed")
	ErrAnalyzeFailed   = errors.New("analyze failed")
	ErrReconcileFailed = errors.New("reconcile failed")
	ErrFinalizeFailed  = errors.New("finalize failed")
)

// AnalysisState accumulates the run's working data as it flows through the
// graph nodes.
type AnalysisState struct {
	UserID    string
	Since     time.Time
	StartedAt time.Time

	Items        []evidence.Item
	Observations []reconcile.Observation
	Records      []reconcile.Record

	Added   int
	Updated int

	Profile *profile.Document
}

func extractAnalysis(s state.State) (*AnalysisState, error) {
	val, ok := s.Get(KeyAnalysis)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyAnalysis)
	}

	as, ok := val.(AnalysisState)
	if !ok {
		return nil, fmt.Errorf("%s is not AnalysisState", KeyAnalysis)
	}

	return &as, nil
}
