// Package profile assembles resolved classifications into the tiered user
// profile document and persists snapshots of it.
package profile

import (
	"time"

	"github.com/mosaicintel/mosaic/internal/classification"
)

// SchemaVersion identifies the tiered profile document layout.
const SchemaVersion = "2.0"

// SelectionView is the presentation form of one selected classification.
type SelectionView struct {
	TaxonomyID         int      `json:"taxonomy_id"`
	TierPath           string   `json:"tier_path"`
	Value              string   `json:"value"`
	Confidence         float64  `json:"confidence"`
	EvidenceCount      int      `json:"evidence_count"`
	LastValidated      string   `json:"last_validated"`
	TierDepth          int      `json:"tier_depth"`
	GranularityScore   float64  `json:"granularity_score"`
	ClassificationType string   `json:"classification_type"`
	ConfidenceDelta    *float64 `json:"confidence_delta"`
}

// Group is a resolved mutually-exclusive field: one primary plus any close
// alternatives.
type Group struct {
	Primary         SelectionView   `json:"primary"`
	Alternatives    []SelectionView `json:"alternatives"`
	SelectionMethod string          `json:"selection_method"`
}

// RankedGroup is a non-exclusive entry ranked by granularity score.
type RankedGroup struct {
	Primary            SelectionView   `json:"primary"`
	Alternatives       []SelectionView `json:"alternatives"`
	SelectionMethod    string          `json:"selection_method"`
	GranularityScore   float64         `json:"granularity_score"`
	PurchaseIntentFlag string          `json:"purchase_intent_flag,omitempty"`
}

// TieredClassifications holds all resolved sections: exclusive sections keyed
// by field name, non-exclusive sections as ranked lists.
type TieredClassifications struct {
	Demographics       map[string]Group `json:"demographics"`
	Household          map[string]Group `json:"household"`
	PersonalAttributes map[string]Group `json:"personal_attributes"`
	PersonalFinance    map[string]Group `json:"personal_finance"`
	Interests          []RankedGroup    `json:"interests"`
	PurchaseIntent     []RankedGroup    `json:"purchase_intent"`
}

// Document is the complete user profile snapshot.
type Document struct {
	SchemaVersion         string                `json:"schema_version"`
	UserID                string                `json:"user_id"`
	GeneratedAt           time.Time             `json:"generated_at"`
	TieredClassifications TieredClassifications `json:"tiered_classifications"`
}

func selectionView(s classification.Selection) SelectionView {
	view := SelectionView{
		TaxonomyID:         s.TaxonomyID,
		TierPath:           s.TierPath,
		Value:              s.Value,
		Confidence:         s.Confidence,
		EvidenceCount:      s.EvidenceCount,
		TierDepth:          s.TierDepth,
		GranularityScore:   s.GranularityScore,
		ClassificationType: s.ClassificationType,
	}
	if !s.LastValidated.IsZero() {
		view.LastValidated = s.LastValidated.UTC().Format(time.RFC3339)
	}
	if s.ClassificationType == classification.TypeAlternative {
		delta := s.ConfidenceDelta
		view.ConfidenceDelta = &delta
	}
	return view
}
