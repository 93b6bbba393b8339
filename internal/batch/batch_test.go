package batch_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mosaicintel/mosaic/internal/batch"
	"github.com/mosaicintel/mosaic/internal/evidence"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func items(n, bodyChars int) []evidence.Item {
	out := make([]evidence.Item, n)
	for i := range out {
		out[i] = evidence.Item{
			Subject: "subject",
			Sender:  "sender@example.com",
			Body:    strings.Repeat("a", bodyChars),
		}
	}
	return out
}

func TestEstimateTokens(t *testing.T) {
	item := evidence.Item{Subject: "hi", Sender: "a@b.c", Body: strings.Repeat("x", 393)}
	// 2 + 5 + 393 chars + 100 overhead tokens*4... overhead is added in
	// token space before division: (400 + 100) / 4
	if got := batch.EstimateTokens(item); got != 125 {
		t.Errorf("got %d tokens, want 125", got)
	}
}

func TestCalculateEmptyQueue(t *testing.T) {
	if got := batch.Calculate(nil, 10000, 0, batch.DefaultOptions()); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestCalculateStartBeyondEnd(t *testing.T) {
	if got := batch.Calculate(items(3, 100), 10000, 5, batch.DefaultOptions()); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestCalculateCappedAtMax(t *testing.T) {
	opts := batch.DefaultOptions()
	got := batch.Calculate(items(200, 10), 1000000, 0, opts)
	if got != opts.MaxBatchSize {
		t.Errorf("got %d, want max %d", got, opts.MaxBatchSize)
	}
}

func TestCalculateOversizedItemYieldsOne(t *testing.T) {
	oversized := items(1, 400000)
	got := batch.Calculate(oversized, 1000, 0, batch.DefaultOptions())
	if got != 1 {
		t.Errorf("got %d, want 1 for item exceeding budget", got)
	}
}

func TestCalculateForcesMinimum(t *testing.T) {
	opts := batch.DefaultOptions()
	// each item ~2525 tokens; available = 10000*0.7 = 7000, natural fit 2
	got := batch.Calculate(items(20, 10000), 10000, 0, opts)
	if got != opts.MinBatchSize {
		t.Errorf("got %d, want forced minimum %d", got, opts.MinBatchSize)
	}
}

func TestCalculateFallbackWithoutBudget(t *testing.T) {
	opts := batch.DefaultOptions()
	if got := batch.Calculate(items(200, 100), 0, 0, opts); got != opts.MaxBatchSize {
		t.Errorf("zero budget: got %d, want %d", got, opts.MaxBatchSize)
	}
	if got := batch.Calculate(items(3, 100), 0, 0, opts); got != 3 {
		t.Errorf("zero budget with short queue: got %d, want 3", got)
	}
}

func TestStateCoversAllItems(t *testing.T) {
	queue := items(137, 2000)
	state := batch.NewState(queue, 50000, batch.DefaultOptions(), discard())

	total := 0
	iterations := 0
	for state.HasMore() {
		chunk := state.Batch()
		if len(chunk) == 0 {
			t.Fatal("empty batch while items remain")
		}
		total += len(chunk)
		state.Advance()

		iterations++
		if iterations > len(queue) {
			t.Fatal("cursor not advancing")
		}
	}

	if total != len(queue) {
		t.Errorf("batches covered %d items, want %d", total, len(queue))
	}
}

func TestStateAdvancePastEnd(t *testing.T) {
	state := batch.NewState(items(3, 100), 10000, batch.DefaultOptions(), discard())

	state.Advance()
	state.Advance()

	if state.HasMore() {
		t.Error("state should be exhausted")
	}
	if got := state.Cursor(); got != 3 {
		t.Errorf("cursor: got %d, want clamped to 3", got)
	}
	if got := len(state.Batch()); got != 0 {
		t.Errorf("exhausted batch: got %d items, want 0", got)
	}
}
