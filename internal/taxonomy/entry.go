package taxonomy

import "strings"

// TierKey names the tier level a grouping value was derived from.
type TierKey string

// Grouping tier keys.
const (
	TierKey2 TierKey = "tier_2"
	TierKey3 TierKey = "tier_3"
)

// Entry is a single taxonomy node. Non-empty tiers always form a contiguous
// prefix of Tiers (tier_k non-empty implies tier_k-1 non-empty). Entries are
// built once by Build and never mutated afterwards.
type Entry struct {
	ID       int
	ParentID int
	Name     string
	Tiers    [5]string
	Row      int

	// Grouping metadata, precomputed by the index from parent structure.
	GroupingTier  TierKey
	GroupingValue string
	GroupingRoot  bool
}

// Tier returns the 1-indexed tier label, or "" when n is out of range.
func (e *Entry) Tier(n int) string {
	if n < 1 || n > len(e.Tiers) {
		return ""
	}
	return e.Tiers[n-1]
}

// Depth returns the number of non-empty tiers (1-5).
func (e *Entry) Depth() int {
	depth := 0
	for _, t := range e.Tiers {
		if strings.TrimSpace(t) != "" {
			depth++
		}
	}
	return depth
}

// DeepestTier returns the most specific non-empty tier label.
func (e *Entry) DeepestTier() string {
	for i := len(e.Tiers) - 1; i >= 0; i-- {
		if strings.TrimSpace(e.Tiers[i]) != "" {
			return e.Tiers[i]
		}
	}
	return ""
}

// Path returns the tier labels joined as "Tier1 | Tier2 | ...".
func (e *Entry) Path() string {
	parts := make([]string, 0, len(e.Tiers))
	for _, t := range e.Tiers {
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " | ")
}

// placeholder reports whether any tier carries the "*Extension" marker used
// by taxonomy authors to reserve future slots. Placeholders are excluded
// from oracle prompt contexts.
func (e *Entry) placeholder() bool {
	for _, t := range e.Tiers {
		if strings.Contains(t, "*Extension") {
			return true
		}
	}
	return false
}

// selfParented reports whether the entry roots its own branch.
func (e *Entry) selfParented() bool {
	return e.ParentID == 0 || e.ParentID == e.ID
}
