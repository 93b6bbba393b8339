package api

import (
	"net/http"

	"github.com/mosaicintel/mosaic/internal/pipeline"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
	"github.com/mosaicintel/mosaic/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, rt *Runtime) {
	groups := []routes.Group{
		taxonomy.NewHandler(rt.Taxonomy, rt.Logger).Routes(),
		pipeline.NewHandler(domain.Pipeline, domain.Inbox, rt.Logger).Routes(),
		domain.Tracking.Handler().Routes(),
	}

	if rt.Storage != nil {
		groups = append(groups, newExportsHandler(rt.Storage, rt.Logger).routes())
	}

	routes.Register(mux, groups...)
}
