package batch

import (
	"log/slog"

	"github.com/mosaicintel/mosaic/internal/evidence"
)

// State is the cursor state machine for one pipeline run. The cursor only
// moves forward, and only via Advance; a State must not be shared across
// concurrent runs.
type State struct {
	items         []evidence.Item
	cursor        int
	batchSize     int
	contextBudget int
	opts          Options
	logger        *slog.Logger
}

// NewState creates a State over the full item queue and computes the first
// batch size.
func NewState(items []evidence.Item, contextBudget int, opts Options, logger *slog.Logger) *State {
	s := &State{
		items:         items,
		contextBudget: contextBudget,
		opts:          opts,
		logger:        logger.With("system", "batch"),
	}
	s.batchSize = Calculate(items, contextBudget, 0, opts)

	if contextBudget <= 0 && len(items) > 0 {
		s.logger.Warn(
			"context budget unknown, using fallback batch size",
			"batch_size", s.batchSize,
		)
	}

	return s
}

// Batch returns the items in the current batch window.
func (s *State) Batch() []evidence.Item {
	end := min(s.cursor+s.batchSize, len(s.items))
	return s.items[s.cursor:end]
}

// Cursor returns the index of the first item in the current batch.
func (s *State) Cursor() int {
	return s.cursor
}

// BatchSize returns the current batch size.
func (s *State) BatchSize() int {
	return s.batchSize
}

// HasMore reports whether unprocessed items remain.
func (s *State) HasMore() bool {
	return s.cursor < len(s.items)
}

// Advance moves the cursor past the current batch and recomputes the next
// batch size from the remainder. Safe to call on an exhausted queue: the
// state simply stays done.
func (s *State) Advance() {
	s.cursor += s.batchSize
	if s.cursor > len(s.items) {
		s.cursor = len(s.items)
	}

	s.batchSize = Calculate(s.items, s.contextBudget, s.cursor, s.opts)

	s.logger.Debug(
		"advanced batch cursor",
		"cursor", s.cursor,
		"batch_size", s.batchSize,
		"remaining", len(s.items)-s.cursor,
	)
}
