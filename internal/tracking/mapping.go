package tracking

import (
	"net/url"

	"github.com/mosaicintel/mosaic/pkg/query"
	"github.com/mosaicintel/mosaic/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analysis_runs", "r").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("emails_processed", "EmailsProcessed").
	Project("classifications_added", "ClassificationsAdded").
	Project("classifications_updated", "ClassificationsUpdated").
	Project("status", "Status").
	Project("error", "Error").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries. Nil fields
// are ignored.
type Filters struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("user_id"); u != "" {
		f.UserID = &u
	}
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.EmailsProcessed,
		&r.ClassificationsAdded,
		&r.ClassificationsUpdated,
		&r.Status,
		&r.Error,
		&r.StartedAt,
		&r.CompletedAt,
	)
	return r, err
}
