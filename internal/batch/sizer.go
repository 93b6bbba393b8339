// Package batch sizes slices of raw evidence for oracle calls so each batch
// fits a model's context budget. Sizing is a character-count heuristic; the
// cursor state machine in state.go drives iteration.
package batch

import "github.com/mosaicintel/mosaic/internal/evidence"

const (
	// formatOverheadTokens covers the per-item framing text added when a
	// batch is rendered into a prompt.
	formatOverheadTokens = 100

	// charsPerToken is the rough English-text conversion rate.
	charsPerToken = 4
)

// Options holds batch sizing parameters.
type Options struct {
	// TargetUtilization is the share of the context budget available to
	// evidence text; the remainder is reserved for the system prompt,
	// taxonomy context, and response.
	TargetUtilization float64
	MinBatchSize      int
	MaxBatchSize      int
}

// DefaultOptions returns the standard sizing parameters.
func DefaultOptions() Options {
	return Options{
		TargetUtilization: 0.70,
		MinBatchSize:      5,
		MaxBatchSize:      50,
	}
}

// EstimateTokens estimates the prompt tokens one item consumes: its text
// fields plus formatting overhead, at four characters per token.
func EstimateTokens(item evidence.Item) int {
	chars := len(item.Subject) + len(item.Sender) + len(item.Body)
	return (chars + formatOverheadTokens) / charsPerToken
}

// Calculate returns the number of items, starting at startIndex, that fit
// the context budget. It accumulates items until the next would overflow
// the available share of the budget, capped at MaxBatchSize.
//
// Two deliberate trade-offs: when the natural result falls below
// MinBatchSize but at least that many items remain, the minimum is forced
// (a slight budget overrun beats degenerate batches); and when a single
// item alone exceeds the whole budget, the result is 1, accepting
// downstream truncation. A non-positive budget falls back to a
// conservative size instead of failing the pipeline. Start beyond the end
// returns 0.
func Calculate(items []evidence.Item, contextBudget, startIndex int, opts Options) int {
	remaining := len(items) - startIndex
	if remaining <= 0 {
		return 0
	}

	if contextBudget <= 0 {
		return min(opts.MaxBatchSize, remaining)
	}

	reserved := int(float64(contextBudget) * (1 - opts.TargetUtilization))
	available := contextBudget - reserved

	cumulative := 0
	size := 0

	limit := min(startIndex+opts.MaxBatchSize, len(items))
	for i := startIndex; i < limit; i++ {
		tokens := EstimateTokens(items[i])
		if cumulative+tokens > available {
			break
		}
		cumulative += tokens
		size++
	}

	if size < opts.MinBatchSize && remaining >= opts.MinBatchSize {
		size = min(opts.MinBatchSize, remaining)
	}

	if size == 0 {
		size = 1
	}

	return size
}
