// Package evidence defines the raw input items the pipeline feeds to the
// classification oracle, and the provider contract that supplies them.
// Providers themselves (mail download, OAuth) live outside this module.
package evidence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Item is one unit of unstructured evidence text, typically a message.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Source supplies evidence items for a user. Implementations are external
// collaborators; the pipeline only consumes this interface.
type Source interface {
	Fetch(ctx context.Context, userID string, since time.Time) ([]Item, error)
}
