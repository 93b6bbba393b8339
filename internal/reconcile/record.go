package reconcile

import (
	"strings"
	"time"

	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// Record is the stored classification state for one taxonomy entry of one
// user. Confidence reflects all evidence reconciled so far; decay is applied
// at read time, not in storage.
type Record struct {
	TaxonomyID         int       `json:"taxonomy_id"`
	Section            string    `json:"section"`
	Value              string    `json:"value"`
	CategoryPath       string    `json:"category_path"`
	GroupingTier       string    `json:"grouping_tier_key,omitempty"`
	GroupingValue      string    `json:"grouping_value,omitempty"`
	TierDepth          int       `json:"tier_depth"`
	Confidence         float64   `json:"confidence"`
	EvidenceCount      int       `json:"evidence_count"`
	Supporting         []string  `json:"supporting_evidence"`
	Contradicting      []string  `json:"contradicting_evidence"`
	FirstObserved      time.Time `json:"first_observed"`
	LastValidated      time.Time `json:"last_validated"`
	LastUpdated        time.Time `json:"last_updated"`
	Reasoning          string    `json:"reasoning,omitempty"`
	PurchaseIntentFlag string    `json:"purchase_intent_flag,omitempty"`
	NeedsReview        bool      `json:"needs_review"`
}

// Recalibrate returns the record's effective confidence at the given time,
// after temporal decay, and whether it now needs review.
func (r *Record) Recalibrate(now time.Time) (float64, bool) {
	days := DaysSinceValidation(r.LastValidated, now)
	confidence := ApplyTemporalDecay(r.Confidence, days)
	return confidence, NeedsReview(confidence)
}

// Candidate converts the record into a selection candidate, using the
// decay-adjusted confidence at the given time.
func (r *Record) Candidate(now time.Time) classification.Candidate {
	confidence, _ := r.Recalibrate(now)
	return classification.Candidate{
		TaxonomyID:    r.TaxonomyID,
		Value:         r.Value,
		Confidence:    confidence,
		EvidenceCount: r.EvidenceCount,
		LastValidated: r.LastValidated,
		GroupingValue: r.GroupingValue,
		TierPath:      r.CategoryPath,
		TierDepth:     r.TierDepth,
		IntentFlag:    classification.PurchaseIntentFlag(r.PurchaseIntentFlag),
	}
}

// Observation is a single piece of classification evidence ready to be
// reconciled into a user's stored records.
type Observation struct {
	TaxonomyID         int
	Section            taxonomy.Section
	Value              string
	Strength           float64
	CategoryPath       string
	GroupingTier       string
	GroupingValue      string
	TierDepth          int
	Reasoning          string
	PurchaseIntentFlag string
	EvidenceID         string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
