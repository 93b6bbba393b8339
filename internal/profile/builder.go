package profile

import (
	"sort"
	"time"

	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// Build assembles resolved section decisions into a profile document.
// Exclusive sections map each resolved group to a named field; non-exclusive
// sections become lists ranked by granularity score. Groups that did not
// resolve (no classification, suppressed) are omitted from the document.
func Build(userID string, bySection map[taxonomy.Section]map[string]classification.Tiered, now time.Time) Document {
	doc := Document{
		SchemaVersion: SchemaVersion,
		UserID:        userID,
		GeneratedAt:   now.UTC(),
		TieredClassifications: TieredClassifications{
			Demographics:       exclusiveFields(taxonomy.SectionDemographics, bySection[taxonomy.SectionDemographics]),
			Household:          exclusiveFields(taxonomy.SectionHousehold, bySection[taxonomy.SectionHousehold]),
			PersonalAttributes: exclusiveFields(taxonomy.SectionPersonalAttributes, bySection[taxonomy.SectionPersonalAttributes]),
			PersonalFinance:    exclusiveFields(taxonomy.SectionPersonalFinance, bySection[taxonomy.SectionPersonalFinance]),
			Interests:          rankedList(bySection[taxonomy.SectionInterests], false),
			PurchaseIntent:     rankedList(bySection[taxonomy.SectionPurchaseIntent], true),
		},
	}
	return doc
}

func exclusiveFields(section taxonomy.Section, groups map[string]classification.Tiered) map[string]Group {
	fields := make(map[string]Group)

	for _, tiered := range groups {
		if tiered.Outcome != classification.OutcomeResolved || tiered.Primary == nil {
			continue
		}

		alternatives := make([]SelectionView, 0, len(tiered.Alternatives))
		for _, alt := range tiered.Alternatives {
			alternatives = append(alternatives, selectionView(alt))
		}

		name := FieldName(section, tiered.Primary.GroupingValue)
		fields[name] = Group{
			Primary:         selectionView(*tiered.Primary),
			Alternatives:    alternatives,
			SelectionMethod: string(tiered.Method),
		}
	}

	return fields
}

func rankedList(groups map[string]classification.Tiered, withIntentFlag bool) []RankedGroup {
	ranked := make([]RankedGroup, 0, len(groups))

	for _, tiered := range groups {
		if tiered.Outcome != classification.OutcomeResolved || tiered.Primary == nil {
			continue
		}

		entry := RankedGroup{
			Primary:          selectionView(*tiered.Primary),
			Alternatives:     []SelectionView{},
			SelectionMethod:  string(tiered.Method),
			GranularityScore: tiered.Primary.GranularityScore,
		}
		if withIntentFlag {
			entry.PurchaseIntentFlag = string(tiered.Primary.IntentFlag)
		}

		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].GranularityScore != ranked[j].GranularityScore {
			return ranked[i].GranularityScore > ranked[j].GranularityScore
		}
		return ranked[i].Primary.TaxonomyID < ranked[j].Primary.TaxonomyID
	})

	return ranked
}
