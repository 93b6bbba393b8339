package query_test

import (
	"strings"
	"testing"

	"github.com/mosaicintel/mosaic/pkg/query"
)

func projection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "analysis_runs", "r").
		Project("id", "ID").
		Project("user_id", "UserID").
		Project("status", "Status").
		Project("started_at", "StartedAt")
}

func TestParseSortFields(t *testing.T) {
	fields := query.ParseSortFields("user_id,-started_at")

	if len(fields) != 2 {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].Field != "user_id" || fields[0].Descending {
		t.Errorf("first field: %+v", fields[0])
	}
	if fields[1].Field != "started_at" || !fields[1].Descending {
		t.Errorf("second field: %+v", fields[1])
	}

	if got := query.ParseSortFields(""); got != nil {
		t.Errorf("empty input: %v", got)
	}
}

func TestBuild(t *testing.T) {
	sql, args := query.NewBuilder(projection()).Build()

	if !strings.HasPrefix(sql, "SELECT ") {
		t.Errorf("sql: %s", sql)
	}
	if !strings.Contains(sql, "public.analysis_runs r") {
		t.Errorf("from clause: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args: %v", args)
	}
}

func TestBuildWithConditions(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("UserID", "u1").
		WhereEquals("Status", "completed").
		Build()

	if !strings.Contains(sql, "WHERE r.user_id = $1 AND r.status = $2") {
		t.Errorf("where clause: %s", sql)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "completed" {
		t.Errorf("args: %v", args)
	}
}

func TestWhereEqualsNilSkipped(t *testing.T) {
	var status *string
	sql, args := query.NewBuilder(projection()).
		WhereEquals("Status", status).
		Build()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("nil condition applied: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args: %v", args)
	}
}

func TestWhereIn(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereIn("Status", []any{"completed", "failed"}).
		Build()

	if !strings.Contains(sql, "r.status IN ($1, $2)") {
		t.Errorf("in clause: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("args: %v", args)
	}
}

func TestWhereSearch(t *testing.T) {
	search := "u1"
	sql, args := query.NewBuilder(projection()).
		WhereSearch(&search, "UserID", "Status").
		Build()

	if !strings.Contains(sql, "(r.user_id ILIKE $1 OR r.status ILIKE $2)") {
		t.Errorf("search clause: %s", sql)
	}
	if len(args) != 2 || args[0] != "%u1%" {
		t.Errorf("args: %v", args)
	}
}

func TestDefaultSort(t *testing.T) {
	sql, _ := query.NewBuilder(projection(), query.SortField{Field: "StartedAt", Descending: true}).Build()

	if !strings.Contains(sql, "ORDER BY r.started_at DESC") {
		t.Errorf("order by: %s", sql)
	}
}

func TestOrderByFieldsOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(projection(), query.SortField{Field: "StartedAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "UserID"}}).
		Build()

	if !strings.Contains(sql, "ORDER BY r.user_id ASC") {
		t.Errorf("order by: %s", sql)
	}
	if strings.Contains(sql, "started_at DESC") {
		t.Errorf("default sort not overridden: %s", sql)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(projection()).BuildPage(3, 25)

	if !strings.Contains(sql, "LIMIT 25 OFFSET 50") {
		t.Errorf("pagination: %s", sql)
	}
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("UserID", "u1").
		BuildCount()

	if !strings.HasPrefix(sql, "SELECT COUNT(*) FROM public.analysis_runs r") {
		t.Errorf("count sql: %s", sql)
	}
	if !strings.Contains(sql, "WHERE r.user_id = $1") || len(args) != 1 {
		t.Errorf("count where: %s %v", sql, args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", "abc")

	if !strings.Contains(sql, "WHERE r.id = $1") {
		t.Errorf("single sql: %s", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args: %v", args)
	}
}
