// Package memory provides the namespaced key-value store that holds
// reconciled classifications, evidence references, and profile snapshots.
// The store is an opaque collaborator with last-write-wins semantics;
// backends cover in-memory (tests and development), embedded Badger, and
// PostgreSQL.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mosaicintel/mosaic/pkg/lifecycle"
)

// Store errors.
var (
	ErrNotFound       = errors.New("memory item not found")
	ErrInvalidBackend = errors.New("invalid memory backend")
)

// Record is one stored item returned by Search.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Store is the namespaced key-value contract. Put marshals value to JSON;
// Get unmarshals into out, returning ErrNotFound for absent keys. Search
// returns every record in a namespace ordered by key.
type Store interface {
	Start(lc *lifecycle.Coordinator) error
	Put(ctx context.Context, namespace, key string, value any) error
	Get(ctx context.Context, namespace, key string, out any) error
	Search(ctx context.Context, namespace string) ([]Record, error)
	Delete(ctx context.Context, namespace, key string) error
}

// SearchAs unmarshals every record in a namespace into T, preserving order.
func SearchAs[T any](ctx context.Context, s Store, namespace string) ([]T, error) {
	records, err := s.Search(ctx, namespace)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		var v T
		if err := json.Unmarshal(r.Value, &v); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", r.Key, err)
		}
		out = append(out, v)
	}

	return out, nil
}
