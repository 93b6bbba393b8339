package taxonomy

import (
	"fmt"
	"sort"
	"strings"
)

// Per-section caps keep the enumeration inside a predictable share of the
// oracle's context budget.
const (
	contextMaxEntries        = 100
	interestsMaxGroups       = 20
	interestsPerGroup        = 8
	purchaseMaxGroups        = 25
	purchasePerGroup         = 6
	householdPriorityPerGrp  = 10
	householdRemainderPerGrp = 5
)

// Household groups surfaced first, in priority order.
var householdPriorityGroups = []string{
	"Home Location",
	"Urbanization",
	"Property Type",
	"Ownership",
	"Household Income (USD)",
	"Life Stage",
	"Number of Adults",
	"Number of Children",
}

// Context renders a section's taxonomy enumeration for oracle prompts.
// Placeholder "*Extension" entries are filtered out. The output is stable
// for a given index, so callers may cache it per section.
func (x *Index) Context(s Section) string {
	entries := x.real(s)

	switch s {
	case SectionDemographics:
		return x.demographicsContext(entries)
	case SectionHousehold:
		return x.householdContext(entries)
	case SectionInterests:
		return x.interestsContext(entries)
	case SectionPurchaseIntent:
		return x.purchaseContext(entries)
	default:
		return x.exclusiveContext(s, entries)
	}
}

// real returns the section's entries with placeholders removed.
func (x *Index) real(s Section) []*Entry {
	all := x.Section(s)
	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if !e.placeholder() {
			out = append(out, e)
		}
	}
	return out
}

func formatEntry(e *Entry) string {
	return fmt.Sprintf("ID %d: %s", e.ID, e.Path())
}

func (x *Index) demographicsContext(entries []*Entry) string {
	grouped := groupByTier2(entries)

	var b strings.Builder
	b.WriteString("Demographics Categories:\n\n")
	b.WriteString("IMPORTANT: Tier 2 represents mutually-exclusive groups (select ONE per group).\n")
	b.WriteString("Example: Within 'Gender' group, select either Male OR Female, not both.\n\n")

	for _, tier2 := range sortedKeys(grouped) {
		fmt.Fprintf(&b, "%s (Tier 2 - mutually exclusive):\n", tier2)
		for _, e := range byID(grouped[tier2]) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
		}
		b.WriteString("\n")
	}

	b.WriteString("Only select categories where you find strong signals in the evidence.\n")
	b.WriteString("Always return the taxonomy_id (ID number) in your response.")
	return b.String()
}

func (x *Index) householdContext(entries []*Entry) string {
	grouped := groupByGroupingValue(entries)

	var b strings.Builder
	b.WriteString("Household Categories:\n\n")
	b.WriteString("IMPORTANT: Categories are mutually-exclusive within each group.\n\n")

	count := 0
	shown := make(map[string]bool)

	for _, group := range householdPriorityGroups {
		members, ok := grouped[group]
		if !ok || count >= 80 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", group)
		for _, e := range limit(byID(members), householdPriorityPerGrp) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
			count++
		}
		b.WriteString("\n")
		shown[group] = true
	}

	for _, group := range sortedKeys(grouped) {
		if shown[group] || count >= contextMaxEntries {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", group)
		for _, e := range limit(byID(grouped[group]), householdRemainderPerGrp) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
			count++
			if count >= contextMaxEntries {
				break
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Look for signals in utility bills, service providers, home-related communications.\n")
	b.WriteString("Always return the taxonomy_id (ID number) in your response.")
	return b.String()
}

func (x *Index) interestsContext(entries []*Entry) string {
	grouped := groupByTier2(entries)

	var b strings.Builder
	b.WriteString("Interests Categories:\n\n")
	b.WriteString("NOTE: Interests are NON-EXCLUSIVE - you can select MULTIPLE interests from the same or different groups.\n")
	b.WriteString("Prefer more specific (deeper tier) classifications when confidence is high.\n\n")

	count := 0
	truncated := false
	for _, tier2 := range limitStrings(sortedKeys(grouped), interestsMaxGroups) {
		fmt.Fprintf(&b, "%s (Tier 2):\n", tier2)
		for _, e := range limit(byID(grouped[tier2]), interestsPerGroup) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
			count++
			if count >= contextMaxEntries {
				truncated = true
				break
			}
		}
		b.WriteString("\n")
		if truncated {
			b.WriteString("... (additional interest categories available)\n")
			break
		}
	}

	b.WriteString("Multiple interests are common. Select all that have strong signals.\n")
	b.WriteString("Always return the taxonomy_id (ID number) in your response.")
	return b.String()
}

func (x *Index) purchaseContext(entries []*Entry) string {
	grouped := groupByTier2(entries)

	var b strings.Builder
	b.WriteString("Purchase Intent Product Categories:\n\n")
	b.WriteString("NOTE: For each product category, you MUST also specify a purchase_intent_flag:\n")
	b.WriteString("- PIPR_HIGH: Recent purchase or strong intent (< 7 days)\n")
	b.WriteString("- PIPR_MEDIUM: Moderate intent (7-30 days)\n")
	b.WriteString("- PIPR_LOW: Weak intent (> 30 days)\n")
	b.WriteString("- ACTUAL_PURCHASE: Confirmed transaction (has receipt, order number, or tracking)\n\n")

	count := 0
	truncated := false
	for _, tier2 := range limitStrings(sortedKeys(grouped), purchaseMaxGroups) {
		fmt.Fprintf(&b, "%s (Tier 2):\n", tier2)
		for _, e := range limit(byID(grouped[tier2]), purchasePerGroup) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
			count++
			if count >= contextMaxEntries {
				truncated = true
				break
			}
		}
		b.WriteString("\n")
		if truncated {
			b.WriteString("... (additional purchase categories available)\n")
			break
		}
	}

	b.WriteString("Identify the PRODUCT CATEGORY from the list above and assign the appropriate purchase_intent_flag.\n")
	b.WriteString("Always return the taxonomy_id (ID number) in your response.")
	return b.String()
}

// exclusiveContext covers the small sections (personal attributes and
// personal finance) that carry no bespoke preamble.
func (x *Index) exclusiveContext(s Section, entries []*Entry) string {
	grouped := groupByGroupingValue(entries)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Categories:\n\n", titleCase(s.String()))
	b.WriteString("IMPORTANT: Categories are mutually-exclusive within each group.\n\n")

	for _, group := range sortedKeys(grouped) {
		fmt.Fprintf(&b, "%s:\n", group)
		for _, e := range byID(grouped[group]) {
			fmt.Fprintf(&b, "- %s\n", formatEntry(e))
		}
		b.WriteString("\n")
	}

	b.WriteString("Only select categories where you find strong signals in the evidence.\n")
	b.WriteString("Always return the taxonomy_id (ID number) in your response.")
	return b.String()
}

func groupByTier2(entries []*Entry) map[string][]*Entry {
	grouped := make(map[string][]*Entry)
	for _, e := range entries {
		if t2 := e.Tier(2); t2 != "" {
			grouped[t2] = append(grouped[t2], e)
		}
	}
	return grouped
}

func groupByGroupingValue(entries []*Entry) map[string][]*Entry {
	grouped := make(map[string][]*Entry)
	for _, e := range entries {
		if e.GroupingValue != "" {
			grouped[e.GroupingValue] = append(grouped[e.GroupingValue], e)
		}
	}
	return grouped
}

func sortedKeys(m map[string][]*Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func byID(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func limit(entries []*Entry, n int) []*Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func limitStrings(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}

func titleCase(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
