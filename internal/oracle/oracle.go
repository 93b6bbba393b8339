// Package oracle sends batches of evidence to a language model and returns
// validated taxonomy findings.
package oracle

import (
	"context"
	"errors"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

var (
	// ErrClassifyFailed indicates the model call or response parsing failed.
	ErrClassifyFailed = errors.New("classification failed")
	// ErrEmptyBatch indicates Classify was called with no evidence items.
	ErrEmptyBatch = errors.New("empty evidence batch")
)

// Finding is one taxonomy classification extracted from a batch of evidence.
// EvidenceNumbers are 1-based positions into the batch that was analyzed.
type Finding struct {
	TaxonomyID         int     `json:"taxonomy_id"`
	Value              string  `json:"value"`
	Confidence         float64 `json:"confidence"`
	EvidenceNumbers    []int   `json:"evidence_numbers,omitempty"`
	Reasoning          string  `json:"reasoning,omitempty"`
	PurchaseIntentFlag string  `json:"purchase_intent_flag,omitempty"`
}

// Oracle classifies evidence batches against one taxonomy section at a time.
type Oracle interface {
	Classify(ctx context.Context, section taxonomy.Section, taxonomyContext string, items []evidence.Item) ([]Finding, error)
}
