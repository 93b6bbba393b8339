package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mosaicintel/mosaic/internal/memory"
	"github.com/mosaicintel/mosaic/pkg/storage"
)

// ErrNotFound indicates no profile snapshot exists for the user.
var ErrNotFound = errors.New("profile not found")

// profileKey is the record key for the current snapshot within the user's
// profile namespace.
const profileKey = "current"

// MapHTTPStatus maps profile errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Service persists profile snapshots to the memory store and optionally
// exports them to blob storage.
type Service struct {
	store  memory.Store
	blobs  storage.System
	logger *slog.Logger
}

// NewService creates a profile Service. blobs may be nil to disable export.
func NewService(store memory.Store, blobs storage.System, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		blobs:  blobs,
		logger: logger.With("system", "profile"),
	}
}

// Save stores the document as the user's current snapshot and, when blob
// storage is configured, exports it as JSON. Export failure does not fail the
// save.
func (s *Service) Save(ctx context.Context, doc Document) error {
	ns := memory.ProfileNamespace(doc.UserID)
	if err := s.store.Put(ctx, ns, profileKey, doc); err != nil {
		return fmt.Errorf("store profile %s: %w", doc.UserID, err)
	}

	if s.blobs != nil {
		if err := s.export(ctx, doc); err != nil {
			s.logger.Warn("profile export failed", "user", doc.UserID, "error", err)
		}
	}

	s.logger.Info("profile saved", "user", doc.UserID)
	return nil
}

// Load returns the user's current profile snapshot.
func (s *Service) Load(ctx context.Context, userID string) (Document, error) {
	var doc Document
	err := s.store.Get(ctx, memory.ProfileNamespace(userID), profileKey, &doc)
	if errors.Is(err, memory.ErrNotFound) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return doc, nil
}

func (s *Service) export(ctx context.Context, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	key := fmt.Sprintf("users/%s/profile.json", doc.UserID)
	if err := s.blobs.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return err
	}

	s.logger.Debug("profile exported", "user", doc.UserID, "key", key)
	return nil
}
