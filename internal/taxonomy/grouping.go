package taxonomy

import (
	"log/slog"
	"strings"
)

// computeGrouping derives the grouping tier key and value for every entry.
// Rerun in full whenever the taxonomy changes; it depends only on parent
// structure.
//
// Root entries (no parent or self-parented) group by their own tier_3 when
// present, else tier_2. Non-root entries inherit the decision from their
// parent: a parent with a non-empty tier_3 puts the whole branch on tier_3
// grouping, with the entry's own tier_3 preferred and the parent's tier_3
// inherited by deeper children that carry none. This separates compound
// branches that fan into several independent mutually-exclusive groups
// under a single parent, distinguished only by inherited tier_3 value.
func (x *Index) computeGrouping(logger *slog.Logger) {
	for i := range x.entries {
		e := &x.entries[i]

		if e.selfParented() {
			if e.Tier(3) != "" {
				e.GroupingTier = TierKey3
				e.GroupingValue = e.Tier(3)
			} else {
				e.GroupingTier = TierKey2
				e.GroupingValue = e.Tier(2)
			}
			e.GroupingRoot = true
			continue
		}

		parent, ok := x.byID[e.ParentID]
		if !ok {
			// Dangling parent reference is an authoring defect, not fatal:
			// fall back to the entry's own tier_2.
			logger.Warn(
				"taxonomy parent not found, falling back to tier_2 grouping",
				"id", e.ID,
				"parent_id", e.ParentID,
				"name", e.Name,
			)
			e.GroupingTier = TierKey2
			e.GroupingValue = e.Tier(2)
			e.GroupingRoot = false
			continue
		}

		if parent.Tier(3) != "" {
			e.GroupingTier = TierKey3
			e.GroupingValue = inherit(e.Tier(3), parent.Tier(3))
		} else {
			e.GroupingTier = TierKey2
			e.GroupingValue = inherit(e.Tier(2), parent.Tier(2))
		}
		e.GroupingRoot = false
	}
}

func inherit(own, parent string) string {
	if own != "" {
		return own
	}
	return parent
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
