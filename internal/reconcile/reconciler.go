package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mosaicintel/mosaic/internal/memory"
)

// Reconciler folds observations into per-user classification records held in
// the memory store.
type Reconciler struct {
	store  memory.Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store memory.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger.With("system", "reconcile"),
		now:    time.Now,
	}
}

// Reconcile merges one observation into the user's stored record for its
// taxonomy entry: first evidence creates the record at the observation's
// strength, later evidence is classified as confirming or contradicting and
// shifts confidence accordingly.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, obs Observation) (Record, error) {
	if obs.Strength < 0 || obs.Strength > 1 {
		return Record{}, fmt.Errorf("%w: evidence strength %v", ErrStrengthOutOfRange, obs.Strength)
	}

	ns := memory.ClassificationsNamespace(userID)
	key := memory.ClassificationKey(obs.TaxonomyID)
	now := r.now().UTC()

	var existing Record
	err := r.store.Get(ctx, ns, key, &existing)
	switch {
	case errors.Is(err, memory.ErrNotFound):
		record := r.initialize(obs, now)
		if err := r.store.Put(ctx, ns, key, record); err != nil {
			return Record{}, fmt.Errorf("store classification %d: %w", obs.TaxonomyID, err)
		}

		r.logger.Info("classification created",
			"user", userID,
			"taxonomy_id", obs.TaxonomyID,
			"value", obs.Value,
			"confidence", record.Confidence,
		)
		return record, nil

	case err != nil:
		return Record{}, fmt.Errorf("load classification %d: %w", obs.TaxonomyID, err)
	}

	record, evidenceType, err := r.merge(existing, obs, now)
	if err != nil {
		return Record{}, err
	}

	if err := r.store.Put(ctx, ns, key, record); err != nil {
		return Record{}, fmt.Errorf("store classification %d: %w", obs.TaxonomyID, err)
	}

	r.logger.Info("classification reconciled",
		"user", userID,
		"taxonomy_id", obs.TaxonomyID,
		"evidence", string(evidenceType),
		"confidence_before", existing.Confidence,
		"confidence_after", record.Confidence,
	)
	return record, nil
}

// ReconcileAll processes a batch of observations, continuing past individual
// failures. Returns the updated records and the first error encountered.
func (r *Reconciler) ReconcileAll(ctx context.Context, userID string, observations []Observation) ([]Record, error) {
	records := make([]Record, 0, len(observations))

	var firstErr error
	for _, obs := range observations {
		record, err := r.Reconcile(ctx, userID, obs)
		if err != nil {
			r.logger.Warn("reconcile failed",
				"user", userID,
				"taxonomy_id", obs.TaxonomyID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		records = append(records, record)
	}

	return records, firstErr
}

// Records returns all stored classification records for a user.
func (r *Reconciler) Records(ctx context.Context, userID string) ([]Record, error) {
	return memory.SearchAs[Record](ctx, r.store, memory.ClassificationsNamespace(userID))
}

func (r *Reconciler) initialize(obs Observation, now time.Time) Record {
	record := Record{
		TaxonomyID:         obs.TaxonomyID,
		Section:            obs.Section.String(),
		Value:              obs.Value,
		CategoryPath:       obs.CategoryPath,
		GroupingTier:       obs.GroupingTier,
		GroupingValue:      obs.GroupingValue,
		TierDepth:          obs.TierDepth,
		Confidence:         obs.Strength,
		EvidenceCount:      1,
		Supporting:         []string{},
		Contradicting:      []string{},
		FirstObserved:      now,
		LastValidated:      now,
		LastUpdated:        now,
		Reasoning:          obs.Reasoning,
		PurchaseIntentFlag: obs.PurchaseIntentFlag,
		NeedsReview:        NeedsReview(obs.Strength),
	}
	if obs.EvidenceID != "" {
		record.Supporting = append(record.Supporting, obs.EvidenceID)
	}
	return record
}

func (r *Reconciler) merge(existing Record, obs Observation, now time.Time) (Record, EvidenceType, error) {
	evidenceType := ClassifyEvidence(existing.Value, obs.Value)

	confidence, err := UpdateConfidence(existing.Confidence, obs.Strength, evidenceType)
	if err != nil {
		return Record{}, evidenceType, err
	}

	record := existing
	record.Confidence = confidence
	record.LastValidated = now
	record.LastUpdated = now
	record.NeedsReview = NeedsReview(confidence)

	if obs.EvidenceID != "" {
		switch evidenceType {
		case Confirming:
			if !slices.Contains(record.Supporting, obs.EvidenceID) {
				record.Supporting = append(record.Supporting, obs.EvidenceID)
			}
		case Contradicting:
			if !slices.Contains(record.Contradicting, obs.EvidenceID) {
				record.Contradicting = append(record.Contradicting, obs.EvidenceID)
			}
		}
	}
	record.EvidenceCount = len(record.Supporting) + len(record.Contradicting)

	// Backfill grouping metadata on records written before it existed.
	if record.GroupingTier == "" && obs.GroupingTier != "" {
		record.GroupingTier = obs.GroupingTier
	}
	if record.GroupingValue == "" && obs.GroupingValue != "" {
		record.GroupingValue = obs.GroupingValue
	}
	if obs.PurchaseIntentFlag != "" {
		record.PurchaseIntentFlag = obs.PurchaseIntentFlag
	}

	if obs.Reasoning != "" {
		if record.Reasoning != "" {
			record.Reasoning = fmt.Sprintf("%s\n\n[%s] %s",
				record.Reasoning, now.Format(time.RFC3339), obs.Reasoning)
		} else {
			record.Reasoning = obs.Reasoning
		}
	}

	return record, evidenceType, nil
}
