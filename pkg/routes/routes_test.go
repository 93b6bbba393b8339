package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mosaicintel/mosaic/pkg/routes"
)

func handler(tag string) (http.HandlerFunc, *string) {
	var hit string
	return func(w http.ResponseWriter, r *http.Request) {
		hit = tag
		w.WriteHeader(http.StatusOK)
	}, &hit
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	list, listHit := handler("list")
	find, findHit := handler("find")

	routes.Register(mux, routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: list},
			{Method: "GET", Pattern: "/{id}", Handler: find},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))
	if rec.Code != http.StatusOK || *listHit != "list" {
		t.Errorf("list route: status=%d hit=%q", rec.Code, *listHit)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/runs/abc", nil))
	if rec.Code != http.StatusOK || *findHit != "find" {
		t.Errorf("find route: status=%d hit=%q", rec.Code, *findHit)
	}
}

func TestRegisterMethodScoped(t *testing.T) {
	mux := http.NewServeMux()
	h, _ := handler("post-only")

	routes.Register(mux, routes.Group{
		Prefix: "/items",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/items", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route: got %d", rec.Code)
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()
	h, hit := handler("nested")

	routes.Register(mux, routes.Group{
		Prefix: "/taxonomy",
		Children: []routes.Group{
			{
				Prefix: "/sections",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{section}", Handler: h},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/taxonomy/sections/interests", nil))
	if rec.Code != http.StatusOK || *hit != "nested" {
		t.Errorf("nested route: status=%d hit=%q", rec.Code, *hit)
	}
}
