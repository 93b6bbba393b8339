package taxonomy

import "fmt"

// Section identifies one of the fixed partitions of the audience taxonomy.
// The set is closed: every taxonomy row belongs to exactly one section via
// the static row-range table below.
type Section int

// Taxonomy sections in source-row order.
const (
	SectionDemographics Section = iota
	SectionHousehold
	SectionPersonalAttributes
	SectionPersonalFinance
	SectionInterests
	SectionPurchaseIntent
)

var sectionNames = map[Section]string{
	SectionDemographics:       "demographics",
	SectionHousehold:          "household",
	SectionPersonalAttributes: "personal_attributes",
	SectionPersonalFinance:    "personal_finance",
	SectionInterests:          "interests",
	SectionPurchaseIntent:     "purchase_intent",
}

// String returns the section's canonical name.
func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// ParseSection resolves a section name to its Section value.
// Returns ErrUnknownSection for any name outside the fixed set.
func ParseSection(name string) (Section, error) {
	for s, n := range sectionNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// Sections returns all sections in source-row order.
func Sections() []Section {
	return []Section{
		SectionDemographics,
		SectionHousehold,
		SectionPersonalAttributes,
		SectionPersonalFinance,
		SectionInterests,
		SectionPurchaseIntent,
	}
}

// Exclusive reports whether grouping values within the section default to
// mutually-exclusive selection. Interests and purchase intent are always
// non-exclusive: a profile can carry any number of them.
func (s Section) Exclusive() bool {
	return s != SectionInterests && s != SectionPurchaseIntent
}

// rowRange is an inclusive 1-indexed source-row interval.
type rowRange struct {
	start int
	end   int
}

// Section row ranges from the taxonomy source layout. Demographics is a
// super-range spanning the age (11-24), education/occupation (27-57), and
// gender (59-62) sub-ranges.
var sectionRanges = map[Section]rowRange{
	SectionDemographics:       {11, 62},
	SectionHousehold:          {64, 168},
	SectionPersonalAttributes: {169, 172},
	SectionPersonalFinance:    {175, 207},
	SectionInterests:          {209, 704},
	SectionPurchaseIntent:     {707, 1568},
}

func (r rowRange) contains(row int) bool {
	return row >= r.start && row <= r.end
}
