// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/mosaicintel/mosaic/internal/config"
	"github.com/mosaicintel/mosaic/internal/infrastructure"
	"github.com/mosaicintel/mosaic/pkg/middleware"
	"github.com/mosaicintel/mosaic/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	spec, err := buildSpec(cfg, runtime.Storage != nil)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc(specRoute(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBytes(cfg.API.MaxRequestSizeBytes()))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
