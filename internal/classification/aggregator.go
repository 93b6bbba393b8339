package classification

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// Grouping values that are never mutually exclusive, even inside exclusive
// sections. Employment status can coexist with an education level.
var nonExclusiveGroups = map[string]bool{
	"Employment Status": true,
}

// Aggregator groups a section's candidates by precomputed grouping value and
// dispatches each group through the tier selector. It holds no mutable
// state beyond the read-only index, so one Aggregator can serve concurrent
// callers.
type Aggregator struct {
	index  *taxonomy.Index
	logger *slog.Logger
	opts   Options
}

// NewAggregator creates an Aggregator over the given taxonomy index.
func NewAggregator(idx *taxonomy.Index, logger *slog.Logger, opts Options) *Aggregator {
	return &Aggregator{
		index:  idx,
		logger: logger.With("system", "classification"),
		opts:   opts,
	}
}

// GroupByGroupingValue buckets candidates by their precomputed grouping
// value. Candidates missing a taxonomy id, value, or grouping value are
// rejected per-record with a warning; they never fail the pass. Input order
// is preserved within each bucket.
func (a *Aggregator) GroupByGroupingValue(candidates []Candidate) map[string][]Candidate {
	groups := make(map[string][]Candidate)

	for _, c := range candidates {
		if !c.wellFormed() || c.GroupingValue == "" {
			a.logger.Warn(
				"rejecting malformed candidate",
				"taxonomy_id", c.TaxonomyID,
				"value", c.Value,
				"grouping_value", c.GroupingValue,
			)
			continue
		}
		groups[c.GroupingValue] = append(groups[c.GroupingValue], c)
	}

	return groups
}

// Apply resolves a section's candidates into tiered decisions keyed by
// grouping value. Exclusive groups run the full selector; non-exclusive
// groups (the denylist plus every group in interests and purchase intent)
// yield one all-primary decision per candidate, keyed by grouping value and
// taxonomy id, still carrying a granularity score for ranking.
func (a *Aggregator) Apply(candidates []Candidate, section taxonomy.Section) map[string]Tiered {
	groups := a.GroupByGroupingValue(candidates)
	results := make(map[string]Tiered, len(groups))

	for groupValue, members := range groups {
		tierGroup := tierGroupID(section, groupValue)

		if exclusive(section, groupValue) {
			tiered := Select(members, tierGroup, a.opts)
			results[groupValue] = tiered

			if tiered.Outcome != OutcomeResolved {
				a.logger.Warn(
					"group not resolved",
					"section", section.String(),
					"group", groupValue,
					"outcome", tiered.Outcome,
				)
			}
			continue
		}

		for _, c := range members {
			primary := Selection{
				Candidate:          c,
				GranularityScore:   GranularityScore(c.Confidence, c.TierDepth, a.opts.GranularityBonus),
				ClassificationType: TypePrimary,
			}

			key := fmt.Sprintf("%s_%d", groupValue, c.TaxonomyID)
			results[key] = Tiered{
				Outcome:      OutcomeResolved,
				Primary:      &primary,
				Alternatives: []Selection{},
				TierGroup:    tierGroup,
				Method:       MethodNonExclusive,
			}
		}
	}

	return results
}

// Enrich resolves oracle findings against the taxonomy, dropping candidates
// whose id does not exist with a warning. Order is preserved.
func (a *Aggregator) Enrich(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Enrich(a.index) {
			a.logger.Warn("unknown taxonomy id in candidate", "taxonomy_id", c.TaxonomyID)
			continue
		}
		out = append(out, c)
	}
	return out
}

func exclusive(section taxonomy.Section, groupValue string) bool {
	if !section.Exclusive() {
		return false
	}
	return !nonExclusiveGroups[groupValue]
}

// tierGroupID builds the stable "section.group" identifier carried on
// decisions, e.g. "demographics.education_highest_level".
func tierGroupID(section taxonomy.Section, groupValue string) string {
	sanitized := strings.ToLower(groupValue)
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	sanitized = strings.ReplaceAll(sanitized, "(", "")
	sanitized = strings.ReplaceAll(sanitized, ")", "")
	return section.String() + "." + sanitized
}
