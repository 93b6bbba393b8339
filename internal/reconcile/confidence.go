// Package reconcile evolves stored classification confidence as new evidence
// arrives: confirming evidence raises it, contradicting evidence lowers it,
// and time without validation decays it.
package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// ErrStrengthOutOfRange indicates a confidence or evidence strength outside
// [0, 1].
var ErrStrengthOutOfRange = errors.New("value must be in [0.0, 1.0]")

// EvidenceType classifies how new evidence relates to an existing record.
type EvidenceType string

const (
	Confirming    EvidenceType = "confirming"
	Contradicting EvidenceType = "contradicting"
	Neutral       EvidenceType = "neutral"
)

const (
	// confirmFactor damps confidence growth on confirming evidence.
	confirmFactor = 0.3
	// contradictFactor makes contradictions less impactful than
	// confirmations.
	contradictFactor = 0.5
	// weeklyDecayRate is the confidence lost per week without validation.
	weeklyDecayRate = 0.01

	// ReviewThreshold marks records whose confidence indicates high
	// uncertainty.
	ReviewThreshold = 0.5
)

// UpdateConfidence applies one piece of evidence to a confidence score.
//
// Confirming: c' = c + (1-c) * strength * 0.3
// Contradicting: c' = c * (1 - strength * 0.5)
// Neutral evidence leaves the score unchanged.
func UpdateConfidence(current, strength float64, evidenceType EvidenceType) (float64, error) {
	if current < 0 || current > 1 {
		return 0, fmt.Errorf("%w: current confidence %v", ErrStrengthOutOfRange, current)
	}
	if strength < 0 || strength > 1 {
		return 0, fmt.Errorf("%w: evidence strength %v", ErrStrengthOutOfRange, strength)
	}

	var updated float64
	switch evidenceType {
	case Confirming:
		updated = current + (1-current)*strength*confirmFactor
	case Contradicting:
		updated = current * (1 - strength*contradictFactor)
	case Neutral:
		updated = current
	default:
		return 0, fmt.Errorf("invalid evidence type: %q", evidenceType)
	}

	return clamp(updated), nil
}

// ApplyTemporalDecay reduces confidence by 1% per week since the last
// validation. Negative day counts are treated as zero.
func ApplyTemporalDecay(confidence float64, days int) float64 {
	if days <= 0 {
		return confidence
	}

	decayRate := weeklyDecayRate * (float64(days) / 7.0)
	return clamp(confidence * (1 - decayRate))
}

// DaysSinceValidation returns whole days elapsed from lastValidated to now,
// floored at zero.
func DaysSinceValidation(lastValidated, now time.Time) int {
	days := int(now.Sub(lastValidated).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// NeedsReview reports whether confidence has fallen below the review
// threshold.
func NeedsReview(confidence float64) bool {
	return confidence < ReviewThreshold
}

// ClassifyEvidence compares a new value against the stored one. Values are
// normalized case-insensitively with surrounding whitespace stripped; equal
// values confirm, differing values contradict.
func ClassifyEvidence(existingValue, newValue string) EvidenceType {
	if normalize(existingValue) == normalize(newValue) {
		return Confirming
	}
	return Contradicting
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
