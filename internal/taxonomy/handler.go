package taxonomy

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mosaicintel/mosaic/pkg/handlers"
	"github.com/mosaicintel/mosaic/pkg/routes"
)

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid taxonomy id: %q", raw)
	}
	return id, nil
}

// MapHTTPStatus translates taxonomy errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownSection):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// EntryView is the JSON projection of a taxonomy entry.
type EntryView struct {
	ID            int    `json:"id"`
	ParentID      int    `json:"parent_id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	Depth         int    `json:"depth"`
	GroupingTier  string `json:"grouping_tier"`
	GroupingValue string `json:"grouping_value"`
}

func entryView(e *Entry) EntryView {
	return EntryView{
		ID:            e.ID,
		ParentID:      e.ParentID,
		Name:          e.Name,
		Path:          e.Path(),
		Depth:         e.Depth(),
		GroupingTier:  string(e.GroupingTier),
		GroupingValue: e.GroupingValue,
	}
}

func entryViews(entries []*Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView(e))
	}
	return views
}

// Handler provides read-only HTTP endpoints over the taxonomy index.
type Handler struct {
	index  *Index
	logger *slog.Logger
}

func NewHandler(index *Index, logger *slog.Logger) *Handler {
	return &Handler{
		index:  index,
		logger: logger.With("handler", "taxonomy"),
	}
}

// Routes returns the route group definition for taxonomy endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/taxonomy",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/sections", Handler: h.Sections},
			{Method: "GET", Pattern: "/sections/{section}", Handler: h.Section},
			{Method: "GET", Pattern: "/sections/{section}/context", Handler: h.Context},
			{Method: "GET", Pattern: "/entries/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
		},
	}
}

// Sections lists the section names in source order.
func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	sections := Sections()
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.String())
	}
	handlers.RespondJSON(w, http.StatusOK, names)
}

// Section lists the entries belonging to one section.
func (h *Handler) Section(w http.ResponseWriter, r *http.Request) {
	s, err := ParseSection(r.PathValue("section"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, entryViews(h.index.Section(s)))
}

// Context returns the prompt context rendered for one section.
func (h *Handler) Context(w http.ResponseWriter, r *http.Request) {
	s, err := ParseSection(r.PathValue("section"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"section": s.String(),
		"context": h.index.Context(s),
	})
}

// Find returns a single entry by its numeric id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entry, ok := h.index.Get(id)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entryView(entry))
}

// Search returns entries whose name contains the term query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	handlers.RespondJSON(w, http.StatusOK, entryViews(h.index.SearchByName(term)))
}
