package profile

import (
	"strings"

	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

// Fixed grouping_value to field name mappings, per IAB Audience Taxonomy 1.1.
// Grouping values outside these tables fall back to sanitization.
var demographicsFields = map[string]string{
	"Gender":                    "gender",
	"Age":                       "age_range",
	"Education (Highest Level)": "education",
	"Employment Status":         "occupation",
	"Marital Status":            "marital_status",
	"Language":                  "language",
}

var householdFields = map[string]string{
	"Home Location":                 "location",
	"Household Income (USD)":        "income",
	"Length of Residence":           "length_of_residence",
	"Life Stage":                    "life_stage",
	"Median Home Value (USD)":       "median_home_value",
	"Monthly Housing Payment (USD)": "monthly_housing_payment",
	"Number of Adults":              "number_of_adults",
	"Number of Children":            "number_of_children",
	"Number of Individuals":         "number_of_individuals",
	"Ownership":                     "ownership",
	"Property Type":                 "property_type",
	"Urbanization":                  "urbanization",
	"Language":                      "language",
}

// FieldName resolves a grouping value to its profile field name for the given
// section, falling back to a sanitized form of the grouping value.
func FieldName(section taxonomy.Section, groupingValue string) string {
	var table map[string]string
	switch section {
	case taxonomy.SectionDemographics:
		table = demographicsFields
	case taxonomy.SectionHousehold:
		table = householdFields
	}

	if name, ok := table[groupingValue]; ok {
		return name
	}
	return SanitizeFieldName(groupingValue)
}

// SanitizeFieldName lowercases a grouping value and normalizes it into a
// snake_case field name: spaces and hyphens become underscores, parentheses
// are stripped.
func SanitizeFieldName(groupingValue string) string {
	s := strings.ToLower(groupingValue)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
