package evidence_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/memory"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddAssignsIDs(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	ctx := context.Background()

	stored, err := source.Add(ctx, "u1", []evidence.Item{
		{Subject: "Order shipped", Body: "On the way"},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("got %d items", len(stored))
	}
	if stored[0].ID == uuid.Nil {
		t.Error("item not assigned an id")
	}
	if stored[0].ReceivedAt.IsZero() {
		t.Error("item not assigned a received time")
	}
}

func TestAddPreservesExistingID(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	id := uuid.New()
	received := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	stored, err := source.Add(context.Background(), "u1", []evidence.Item{
		{ID: id, Subject: "s", ReceivedAt: received},
	})
	if err != nil {
		t.Fatal(err)
	}
	if stored[0].ID != id {
		t.Errorf("id replaced: got %s", stored[0].ID)
	}
	if !stored[0].ReceivedAt.Equal(received) {
		t.Errorf("received time replaced: got %v", stored[0].ReceivedAt)
	}
}

func TestAddValidation(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := source.Add(ctx, "", []evidence.Item{{Subject: "s"}}); !errors.Is(err, evidence.ErrInvalidItem) {
		t.Errorf("missing user id: got %v", err)
	}
	if _, err := source.Add(ctx, "u1", []evidence.Item{{Sender: "a@b.c"}}); !errors.Is(err, evidence.ErrInvalidItem) {
		t.Errorf("empty subject and body: got %v", err)
	}
}

func TestFetchOrdersOldestFirst(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []evidence.Item{
		{Subject: "third", ReceivedAt: base.AddDate(0, 0, 2)},
		{Subject: "first", ReceivedAt: base},
		{Subject: "second", ReceivedAt: base.AddDate(0, 0, 1)},
	}
	if _, err := source.Add(ctx, "u1", items); err != nil {
		t.Fatal(err)
	}

	fetched, err := source.Fetch(ctx, "u1", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 3 {
		t.Fatalf("got %d items", len(fetched))
	}
	for i, want := range []string{"first", "second", "third"} {
		if fetched[i].Subject != want {
			t.Errorf("position %d: got %q, want %q", i, fetched[i].Subject, want)
		}
	}
}

func TestFetchSinceFilter(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []evidence.Item{
		{Subject: "old", ReceivedAt: base},
		{Subject: "boundary", ReceivedAt: base.AddDate(0, 0, 5)},
		{Subject: "new", ReceivedAt: base.AddDate(0, 0, 10)},
	}
	if _, err := source.Add(ctx, "u1", items); err != nil {
		t.Fatal(err)
	}

	fetched, err := source.Fetch(ctx, "u1", base.AddDate(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 1 || fetched[0].Subject != "new" {
		t.Errorf("since filter: got %v", fetched)
	}
}

func TestFetchOtherUserEmpty(t *testing.T) {
	source := evidence.NewStoreSource(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := source.Add(ctx, "u1", []evidence.Item{{Subject: "s"}}); err != nil {
		t.Fatal(err)
	}

	fetched, err := source.Fetch(ctx, "u2", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 0 {
		t.Errorf("got %d items for another user", len(fetched))
	}
}
