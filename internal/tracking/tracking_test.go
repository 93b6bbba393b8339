package tracking_test

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mosaicintel/mosaic/internal/tracking"
	"github.com/mosaicintel/mosaic/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("user_id", "u1")
	values.Set("status", tracking.StatusFailed)

	f := tracking.FiltersFromQuery(values)
	if f.UserID == nil || *f.UserID != "u1" {
		t.Errorf("user filter: %v", f.UserID)
	}
	if f.Status == nil || *f.Status != tracking.StatusFailed {
		t.Errorf("status filter: %v", f.Status)
	}

	empty := tracking.FiltersFromQuery(url.Values{})
	if empty.UserID != nil || empty.Status != nil {
		t.Errorf("empty query produced filters: %+v", empty)
	}
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "analysis_runs", "r").
		Project("user_id", "UserID").
		Project("status", "Status")

	user := "u1"
	f := tracking.Filters{UserID: &user}

	sql, args := f.Apply(query.NewBuilder(projection)).Build()
	if !strings.Contains(sql, "r.user_id = $1") {
		t.Errorf("user condition missing: %s", sql)
	}
	if strings.Contains(sql, "r.status") {
		t.Errorf("nil status filter applied: %s", sql)
	}
	if len(args) != 1 {
		t.Fatalf("args: %v", args)
	}
	if got, ok := args[0].(*string); !ok || *got != "u1" {
		t.Errorf("args: %v", args)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{tracking.ErrNotFound, http.StatusNotFound},
		{tracking.ErrDuplicate, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := tracking.MapHTTPStatus(tc.err); got != tc.want {
			t.Errorf("%v: got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRunDuration(t *testing.T) {
	started := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	completed := started.Add(90 * time.Second)

	open := tracking.Run{StartedAt: started}
	if d := open.Duration(); d != 0 {
		t.Errorf("open run duration: %v", d)
	}

	done := tracking.Run{StartedAt: started, CompletedAt: &completed}
	if d := done.Duration(); d != 90*time.Second {
		t.Errorf("completed run duration: %v", d)
	}
}
