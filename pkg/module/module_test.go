package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mosaicintel/mosaic/pkg/module"
)

func echoPath() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(r.URL.Path))
	})
	return mux
}

func TestModuleStripsPrefix(t *testing.T) {
	m := module.New("/api", echoPath())

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if rec.Body.String() != "/runs" {
		t.Errorf("inner path: got %q", rec.Body.String())
	}
}

func TestModuleMiddleware(t *testing.T) {
	m := module.New("/api", echoPath())
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "api")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/runs", nil))

	if got := rec.Header().Get("X-Module"); got != "api" {
		t.Errorf("middleware header: got %q", got)
	}
}

func TestModulePrefixValidation(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("prefix %q accepted", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		}()
	}
}

func TestRouterDispatch(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", echoPath()))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "/runs" {
		t.Errorf("module dispatch: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("native dispatch: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestRouterTrailingSlash(t *testing.T) {
	router := module.NewRouter()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Mount(module.New("/scalar", mux))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/scalar/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("trailing slash: %d", rec.Code)
	}
}
