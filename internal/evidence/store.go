package evidence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicintel/mosaic/internal/memory"
)

// ErrInvalidItem reports an ingested item that cannot be stored.
var ErrInvalidItem = errors.New("invalid evidence item")

// MapHTTPStatus translates evidence errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidItem) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// StoreSource is a memory-store-backed Source. Items are ingested through
// Add and fetched back per user, ordered by received time.
type StoreSource struct {
	store  memory.Store
	logger *slog.Logger
}

// NewStoreSource creates a StoreSource over the given memory store.
func NewStoreSource(store memory.Store, logger *slog.Logger) *StoreSource {
	return &StoreSource{
		store:  store,
		logger: logger.With("system", "evidence"),
	}
}

// Add stores items in the user's inbox. Items without an ID are assigned
// one; items with an existing ID overwrite the prior copy.
func (s *StoreSource) Add(ctx context.Context, userID string, items []Item) ([]Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidItem)
	}

	namespace := memory.InboxNamespace(userID)
	stored := make([]Item, 0, len(items))

	for _, item := range items {
		if item.Body == "" && item.Subject == "" {
			return nil, fmt.Errorf("%w: subject or body required", ErrInvalidItem)
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if item.ReceivedAt.IsZero() {
			item.ReceivedAt = time.Now().UTC()
		}
		if err := s.store.Put(ctx, namespace, item.ID.String(), item); err != nil {
			return nil, fmt.Errorf("store evidence %s: %w", item.ID, err)
		}
		stored = append(stored, item)
	}

	s.logger.Info("evidence ingested", "user", userID, "count", len(stored))
	return stored, nil
}

// Fetch returns the user's inbox items received after since, oldest first.
func (s *StoreSource) Fetch(ctx context.Context, userID string, since time.Time) ([]Item, error) {
	all, err := memory.SearchAs[Item](ctx, s.store, memory.InboxNamespace(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch evidence: %w", err)
	}

	items := make([]Item, 0, len(all))
	for _, item := range all {
		if !since.IsZero() && !item.ReceivedAt.After(since) {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ReceivedAt.Before(items[j].ReceivedAt)
	})

	return items, nil
}
