// Package tracking records analysis runs in PostgreSQL for operational
// history: who was analyzed, how much evidence was processed, and what
// changed.
package tracking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("run not found")
	// ErrDuplicate indicates a run with the same id was already recorded.
	ErrDuplicate = errors.New("run already recorded")
)

// MapHTTPStatus maps tracking domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded analysis run for a user.
type Run struct {
	ID                     uuid.UUID  `json:"id"`
	UserID                 string     `json:"user_id"`
	EmailsProcessed        int        `json:"emails_processed"`
	ClassificationsAdded   int        `json:"classifications_added"`
	ClassificationsUpdated int        `json:"classifications_updated"`
	Status                 string     `json:"status"`
	Error                  *string    `json:"error,omitempty"`
	StartedAt              time.Time  `json:"started_at"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
}

// Duration returns the wall-clock duration of a completed run, or zero while
// the run is open.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
