package pipeline

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/pkg/handlers"
	"github.com/mosaicintel/mosaic/pkg/routes"
)

// Handler provides the user-facing profile endpoints: evidence ingestion,
// analysis runs, the assembled profile, and the reconciled classifications
// behind it.
type Handler struct {
	rt     *Runtime
	inbox  *evidence.StoreSource
	logger *slog.Logger
}

// AnalyzeRequest is the optional body for an analysis run. A zero Since
// considers every stored evidence item.
type AnalyzeRequest struct {
	Since time.Time `json:"since"`
}

func NewHandler(rt *Runtime, inbox *evidence.StoreSource, logger *slog.Logger) *Handler {
	return &Handler{
		rt:     rt,
		inbox:  inbox,
		logger: logger.With("handler", "profiles"),
	}
}

// Routes returns the route group definition for profile endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/profiles",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{user}", Handler: h.Find},
			{Method: "GET", Pattern: "/{user}/classifications", Handler: h.Classifications},
			{Method: "POST", Pattern: "/{user}/evidence", Handler: h.Ingest},
			{Method: "POST", Pattern: "/{user}/analyze", Handler: h.Analyze},
		},
	}
}

// Find returns the current profile snapshot for a user.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	doc, err := h.rt.Profiles.Load(r.Context(), r.PathValue("user"))
	if err != nil {
		handlers.RespondError(w, h.logger, profile.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Classifications returns the reconciled classification records for a user,
// recalibrated to the current time.
func (h *Handler) Classifications(w http.ResponseWriter, r *http.Request) {
	records, err := h.rt.Reconciler.Records(r.Context(), r.PathValue("user"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	now := time.Now().UTC()
	for i := range records {
		records[i].Confidence, records[i].NeedsReview = records[i].Recalibrate(now)
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Ingest stores a batch of evidence items in the user's inbox.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	items, err := handlers.DecodeJSON[[]evidence.Item](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	stored, err := h.inbox.Add(r.Context(), r.PathValue("user"), items)
	if err != nil {
		handlers.RespondError(w, h.logger, evidence.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, stored)
}

// Analyze runs the full analysis pipeline for a user and returns the run
// result. The request body is optional.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if r.ContentLength > 0 {
		req, err := handlers.DecodeJSON[AnalyzeRequest](r)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		since = req.Since
	}

	result, err := Execute(r.Context(), h.rt, r.PathValue("user"), since)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
