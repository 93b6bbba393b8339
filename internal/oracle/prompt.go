package oracle

import (
	"fmt"
	"strings"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

const maxBodyChars = 1000

// composePrompt builds the full classification prompt for one section and one
// evidence batch. The taxonomy context lists the candidate entries; evidence
// items are numbered so findings can cite them.
func composePrompt(section taxonomy.Section, taxonomyContext string, items []evidence.Item) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an audience intelligence analyst. Analyze the emails below for %s signals and classify them against the available taxonomy entries.\n\n", section)

	b.WriteString("## Available Taxonomy Entries\n\n")
	b.WriteString(taxonomyContext)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Emails (%d)\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "Email %d:\nSubject: %s\nFrom: %s\nBody: %s\n\n",
			i+1, item.Subject, item.Sender, truncate(item.Body, maxBodyChars))
	}

	b.WriteString(`## Instructions

- Select the taxonomy_id from the list above (the number after "ID").
- For the "value" field, use ONLY the final tier value (rightmost part after the last "|"). Example: for "ID 342: Interests | Technology & Computing | Cryptocurrency", use taxonomy_id=342 and value="Cryptocurrency".
- Prefer the most specific entry available over broad category entries.
- Only return classifications you are confident about (confidence >= 0.6).
- Cite the email numbers that support each classification in "evidence_numbers".
`)

	if section == taxonomy.SectionPurchaseIntent {
		b.WriteString(`- Set "purchase_intent_flag" to PIPR_HIGH, PIPR_MEDIUM, PIPR_LOW, or ACTUAL_PURCHASE based on the strength of the purchase signal.
`)
	}

	b.WriteString(`
Respond with JSON only:
{"classifications": [{"taxonomy_id": 0, "value": "", "confidence": 0.0, "evidence_numbers": [1], "reasoning": ""}]}
`)

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
