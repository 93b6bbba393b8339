package classification

import (
	"math"
	"sort"
	"strings"
)

// Method records how a group's primary was selected.
type Method string

// Selection methods.
const (
	MethodHighestConfidence   Method = "highest_confidence"
	MethodGranularityWeighted Method = "granularity_weighted"
	MethodNonExclusive        Method = "non_exclusive"
)

// Outcome distinguishes the three terminal states of a grouping decision.
type Outcome string

// Group outcomes. A suppressed group is one whose top-ranked candidate was
// an "Unknown" value; it is distinct from a group where every candidate
// fell below the confidence threshold.
const (
	OutcomeResolved         Outcome = "resolved"
	OutcomeNoClassification Outcome = "no_classification"
	OutcomeSuppressed       Outcome = "suppressed"
)

// unknownPrefix marks taxonomy grouping values authored as "not
// determinable" buckets. Prefix sniffing leaks an authoring convention into
// selection; an explicit flag in the taxonomy data would be cleaner, kept
// as-is for parity with the taxonomy source.
const unknownPrefix = "Unknown "

// ClassificationType values carried on selections.
const (
	TypePrimary     = "primary"
	TypeAlternative = "alternative"
)

// Selection is a candidate promoted to primary or alternative, annotated
// with its ranking score. ConfidenceDelta is the primary's raw confidence
// minus this selection's, populated only on alternatives.
type Selection struct {
	Candidate
	GranularityScore   float64 `json:"granularity_score"`
	ClassificationType string  `json:"classification_type"`
	ConfidenceDelta    float64 `json:"confidence_delta,omitempty"`
}

// Tiered is the resolved decision for one grouping value: a single primary
// plus ordered alternatives, or a terminal non-resolved outcome.
type Tiered struct {
	Outcome      Outcome     `json:"outcome"`
	Primary      *Selection  `json:"primary,omitempty"`
	Alternatives []Selection `json:"alternatives"`
	TierGroup    string      `json:"tier_group"`
	Method       Method      `json:"selection_method"`
}

// Options holds the selector thresholds.
type Options struct {
	MinConfidence            float64
	ConfidenceDeltaThreshold float64
	GranularityBonus         float64
}

// DefaultOptions returns the standard selector thresholds.
func DefaultOptions() Options {
	return Options{
		MinConfidence:            0.5,
		ConfidenceDeltaThreshold: 0.3,
		GranularityBonus:         DefaultGranularityBonus,
	}
}

// Select resolves one mutually-exclusive group of candidates sharing a
// grouping value into a primary and alternatives.
//
// Candidates below MinConfidence are dropped first; an empty remainder
// yields OutcomeNoClassification. Survivors are ranked by granularity
// score, descending, with ties broken by input order (a stable sort —
// any change here is a regression, not a free choice). If the top
// candidate's grouping value starts with "Unknown ", the whole group is
// suppressed regardless of other members: an Unknown winning means the
// feature is not determinable, and surfacing a runner-up as primary would
// misrepresent confidence. Alternatives are the remaining candidates whose
// raw confidence sits within ConfidenceDeltaThreshold of the primary's.
func Select(candidates []Candidate, tierGroup string, opts Options) Tiered {
	result := Tiered{
		TierGroup:    tierGroup,
		Alternatives: []Selection{},
	}

	viable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence >= opts.MinConfidence {
			viable = append(viable, c)
		}
	}

	if len(viable) == 0 {
		result.Outcome = OutcomeNoClassification
		return result
	}

	scored := make([]Selection, len(viable))
	for i, c := range viable {
		scored[i] = Selection{
			Candidate:        c,
			GranularityScore: GranularityScore(c.Confidence, c.TierDepth, opts.GranularityBonus),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].GranularityScore > scored[j].GranularityScore
	})

	if strings.HasPrefix(scored[0].GroupingValue, unknownPrefix) {
		result.Outcome = OutcomeSuppressed
		return result
	}

	primary := scored[0]
	primary.ClassificationType = TypePrimary

	for _, s := range scored[1:] {
		delta := primary.Confidence - s.Confidence
		if delta <= opts.ConfidenceDeltaThreshold && s.Confidence >= opts.MinConfidence {
			s.ClassificationType = TypeAlternative
			s.ConfidenceDelta = round3(delta)
			result.Alternatives = append(result.Alternatives, s)
		}
	}

	result.Outcome = OutcomeResolved
	result.Primary = &primary
	result.Method = MethodHighestConfidence
	if primary.Confidence >= ReliabilityFloor {
		result.Method = MethodGranularityWeighted
	}

	return result
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
