// Package classification implements the tiered-confidence decision core:
// granularity scoring, primary/alternative selection within mutually
// exclusive grouping values, and per-section aggregation. It consumes
// confidence-scored candidates produced by the oracle; it never scores raw
// text itself.
package classification

import (
	"time"

	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// PurchaseIntentFlag qualifies purchase-intent candidates by recency and
// certainty of the underlying transaction signal.
type PurchaseIntentFlag string

// Purchase intent flags.
const (
	PIPRHigh       PurchaseIntentFlag = "PIPR_HIGH"
	PIPRMedium     PurchaseIntentFlag = "PIPR_MEDIUM"
	PIPRLow        PurchaseIntentFlag = "PIPR_LOW"
	ActualPurchase PurchaseIntentFlag = "ACTUAL_PURCHASE"
)

// Candidate is one confidence-scored classification proposed by the oracle,
// enriched with taxonomy metadata before selection. Value is expected to
// equal the referenced entry's deepest non-empty tier; that integrity is
// enforced by separate tooling, not at write time.
type Candidate struct {
	TaxonomyID    int                `json:"taxonomy_id"`
	Value         string             `json:"value"`
	Confidence    float64            `json:"confidence"`
	EvidenceCount int                `json:"evidence_count"`
	LastValidated time.Time          `json:"last_validated"`
	GroupingValue string             `json:"grouping_value"`
	TierPath      string             `json:"tier_path"`
	TierDepth     int                `json:"tier_depth"`
	IntentFlag    PurchaseIntentFlag `json:"purchase_intent_flag,omitempty"`
}

// Enrich copies taxonomy metadata (grouping value, tier path, depth, and a
// default value) onto the candidate. Returns false when the taxonomy id does
// not resolve.
func (c *Candidate) Enrich(idx *taxonomy.Index) bool {
	entry, ok := idx.Get(c.TaxonomyID)
	if !ok {
		return false
	}

	c.GroupingValue = entry.GroupingValue
	c.TierPath = entry.Path()
	c.TierDepth = entry.Depth()
	if c.Value == "" {
		c.Value = entry.DeepestTier()
	}
	return true
}

// wellFormed reports whether the candidate carries the fields aggregation
// requires. Malformed records are rejected per-record, never fatally.
func (c *Candidate) wellFormed() bool {
	return c.TaxonomyID != 0 && c.Value != ""
}
