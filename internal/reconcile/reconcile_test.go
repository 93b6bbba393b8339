package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mosaicintel/mosaic/internal/memory"
	"github.com/mosaicintel/mosaic/internal/reconcile"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUpdateConfidence(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		strength float64
		evidence reconcile.EvidenceType
		want     float64
	}{
		{"confirming raises", 0.75, 0.8, reconcile.Confirming, 0.81},
		{"contradicting lowers", 0.75, 0.6, reconcile.Contradicting, 0.525},
		{"neutral unchanged", 0.6, 0.9, reconcile.Neutral, 0.6},
		{"confirming from zero", 0.0, 1.0, reconcile.Confirming, 0.3},
		{"confirming saturates below one", 1.0, 1.0, reconcile.Confirming, 1.0},
		{"contradicting at full strength", 0.8, 1.0, reconcile.Contradicting, 0.4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reconcile.UpdateConfidence(tc.current, tc.strength, tc.evidence)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !closeTo(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUpdateConfidenceRejectsRange(t *testing.T) {
	if _, err := reconcile.UpdateConfidence(1.2, 0.5, reconcile.Confirming); !errors.Is(err, reconcile.ErrStrengthOutOfRange) {
		t.Errorf("current out of range: got %v", err)
	}
	if _, err := reconcile.UpdateConfidence(0.5, -0.1, reconcile.Confirming); !errors.Is(err, reconcile.ErrStrengthOutOfRange) {
		t.Errorf("strength out of range: got %v", err)
	}
	if _, err := reconcile.UpdateConfidence(0.5, 0.5, "supporting"); err == nil {
		t.Error("invalid evidence type accepted")
	}
}

func TestApplyTemporalDecay(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		days       int
		want       float64
	}{
		{"no elapsed time", 0.85, 0, 0.85},
		{"one week", 0.85, 7, 0.8415},
		{"two weeks", 0.8, 14, 0.784},
		{"negative days", 0.85, -3, 0.85},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := reconcile.ApplyTemporalDecay(tc.confidence, tc.days)
			if !closeTo(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDaysSinceValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := reconcile.DaysSinceValidation(now.AddDate(0, 0, -7), now); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
	if got := reconcile.DaysSinceValidation(now.Add(-12*time.Hour), now); got != 0 {
		t.Errorf("partial day: got %d, want 0", got)
	}
	if got := reconcile.DaysSinceValidation(now.Add(time.Hour), now); got != 0 {
		t.Errorf("future timestamp: got %d, want 0", got)
	}
}

func TestClassifyEvidence(t *testing.T) {
	if got := reconcile.ClassifyEvidence("25-34", " 25-34 "); got != reconcile.Confirming {
		t.Errorf("whitespace-normalized match: got %q", got)
	}
	if got := reconcile.ClassifyEvidence("Golf", "golf"); got != reconcile.Confirming {
		t.Errorf("case-insensitive match: got %q", got)
	}
	if got := reconcile.ClassifyEvidence("25-34", "35-44"); got != reconcile.Contradicting {
		t.Errorf("differing values: got %q", got)
	}
}

func TestNeedsReview(t *testing.T) {
	if !reconcile.NeedsReview(0.49) {
		t.Error("0.49 should need review")
	}
	if reconcile.NeedsReview(0.5) {
		t.Error("0.5 should not need review")
	}
}

func TestRecordRecalibrate(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	record := reconcile.Record{
		Confidence:    0.52,
		LastValidated: now.AddDate(0, 0, -28),
	}

	confidence, review := record.Recalibrate(now)
	want := 0.52 * (1 - 0.01*4)
	if !closeTo(confidence, want) {
		t.Errorf("confidence: got %v, want %v", confidence, want)
	}
	if !review {
		t.Error("decayed confidence below threshold should need review")
	}
}

func TestRecordCandidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	record := reconcile.Record{
		TaxonomyID:    14,
		Value:         "25-34",
		Confidence:    0.9,
		EvidenceCount: 3,
		LastValidated: now,
		GroupingValue: "Age",
		CategoryPath:  "Demographic | Age | 25-34",
		TierDepth:     3,
	}

	candidate := record.Candidate(now)
	if candidate.TaxonomyID != 14 || candidate.Value != "25-34" {
		t.Errorf("identity: got %+v", candidate)
	}
	if !closeTo(candidate.Confidence, 0.9) {
		t.Errorf("confidence: got %v", candidate.Confidence)
	}
	if candidate.TierDepth != 3 || candidate.TierPath != "Demographic | Age | 25-34" {
		t.Errorf("tier fields: got %+v", candidate)
	}
}

func observation(value string, strength float64, evidenceID string) reconcile.Observation {
	return reconcile.Observation{
		TaxonomyID:    14,
		Section:       taxonomy.SectionDemographics,
		Value:         value,
		Strength:      strength,
		CategoryPath:  "Demographic | Age | " + value,
		GroupingTier:  "tier3",
		GroupingValue: "Age",
		TierDepth:     3,
		Reasoning:     "mentioned in message",
		EvidenceID:    evidenceID,
	}
}

func TestReconcileCreatesRecord(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())
	ctx := context.Background()

	record, err := r.Reconcile(ctx, "u1", observation("25-34", 0.8, "ev-1"))
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if !closeTo(record.Confidence, 0.8) {
		t.Errorf("initial confidence: got %v", record.Confidence)
	}
	if record.EvidenceCount != 1 {
		t.Errorf("evidence count: got %d", record.EvidenceCount)
	}
	if len(record.Supporting) != 1 || record.Supporting[0] != "ev-1" {
		t.Errorf("supporting evidence: got %v", record.Supporting)
	}
	if record.NeedsReview {
		t.Error("confident record marked for review")
	}
	if record.Section != "demographics" {
		t.Errorf("section: got %q", record.Section)
	}
}

func TestReconcileConfirming(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "u1", observation("25-34", 0.75, "ev-1")); err != nil {
		t.Fatal(err)
	}
	record, err := r.Reconcile(ctx, "u1", observation("25-34", 0.8, "ev-2"))
	if err != nil {
		t.Fatal(err)
	}

	if !closeTo(record.Confidence, 0.81) {
		t.Errorf("confidence: got %v, want 0.81", record.Confidence)
	}
	if record.EvidenceCount != 2 || len(record.Supporting) != 2 {
		t.Errorf("evidence: count=%d supporting=%v", record.EvidenceCount, record.Supporting)
	}
	if !strings.Contains(record.Reasoning, "\n\n[") {
		t.Errorf("reasoning not appended with timestamp: %q", record.Reasoning)
	}
}

func TestReconcileContradicting(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "u1", observation("25-34", 0.75, "ev-1")); err != nil {
		t.Fatal(err)
	}
	record, err := r.Reconcile(ctx, "u1", observation("35-44", 0.6, "ev-2"))
	if err != nil {
		t.Fatal(err)
	}

	if !closeTo(record.Confidence, 0.525) {
		t.Errorf("confidence: got %v, want 0.525", record.Confidence)
	}
	if record.Value != "25-34" {
		t.Errorf("stored value replaced: got %q", record.Value)
	}
	if len(record.Contradicting) != 1 || record.Contradicting[0] != "ev-2" {
		t.Errorf("contradicting evidence: got %v", record.Contradicting)
	}
	if record.EvidenceCount != 2 {
		t.Errorf("evidence count: got %d", record.EvidenceCount)
	}
}

func TestReconcileDeduplicatesEvidence(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "u1", observation("25-34", 0.75, "ev-1")); err != nil {
		t.Fatal(err)
	}
	record, err := r.Reconcile(ctx, "u1", observation("25-34", 0.8, "ev-1"))
	if err != nil {
		t.Fatal(err)
	}

	if len(record.Supporting) != 1 || record.EvidenceCount != 1 {
		t.Errorf("duplicate evidence counted: supporting=%v count=%d", record.Supporting, record.EvidenceCount)
	}
}

func TestReconcileRejectsStrength(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())

	_, err := r.Reconcile(context.Background(), "u1", observation("25-34", 1.5, "ev-1"))
	if !errors.Is(err, reconcile.ErrStrengthOutOfRange) {
		t.Errorf("got %v", err)
	}
}

func TestReconcileAllContinuesPastFailures(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())

	observations := []reconcile.Observation{
		observation("25-34", 0.8, "ev-1"),
		observation("35-44", 2.0, "ev-2"),
		{TaxonomyID: 20, Section: taxonomy.SectionInterests, Value: "Golf", Strength: 0.7, EvidenceID: "ev-3"},
	}

	records, err := r.ReconcileAll(context.Background(), "u1", observations)
	if !errors.Is(err, reconcile.ErrStrengthOutOfRange) {
		t.Errorf("first error: got %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestRecords(t *testing.T) {
	r := reconcile.New(memory.NewInMemory(), discard())
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, "u1", observation("25-34", 0.8, "ev-1")); err != nil {
		t.Fatal(err)
	}
	other := observation("Golf", 0.7, "ev-2")
	other.TaxonomyID = 210
	other.Section = taxonomy.SectionInterests
	if _, err := r.Reconcile(ctx, "u1", other); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Reconcile(ctx, "u2", observation("35-44", 0.6, "ev-3")); err != nil {
		t.Fatal(err)
	}

	records, err := r.Records(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records for u1, want 2", len(records))
	}
}
