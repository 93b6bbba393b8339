package oracle

import (
	"strings"
	"testing"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

func TestComposePromptNumbersEvidence(t *testing.T) {
	items := []evidence.Item{
		{Subject: "Your receipt", Sender: "store@example.com", Body: "Thanks for your order"},
		{Subject: "Tee time confirmed", Sender: "club@example.com", Body: "Saturday at 8am"},
	}

	prompt := composePrompt(taxonomy.SectionInterests, "ID 210: Interests | Sports | Golf", items)

	if !strings.Contains(prompt, "## Emails (2)") {
		t.Error("missing email count header")
	}
	if !strings.Contains(prompt, "Email 1:\nSubject: Your receipt") {
		t.Error("first email not numbered from 1")
	}
	if !strings.Contains(prompt, "Email 2:\nSubject: Tee time confirmed") {
		t.Error("second email missing")
	}
	if !strings.Contains(prompt, "ID 210: Interests | Sports | Golf") {
		t.Error("taxonomy context not included")
	}
	if !strings.Contains(prompt, "interests signals") {
		t.Error("section name not in preamble")
	}
}

func TestComposePromptTruncatesBody(t *testing.T) {
	long := strings.Repeat("x", maxBodyChars+500)
	items := []evidence.Item{{Subject: "s", Sender: "a@b.c", Body: long}}

	prompt := composePrompt(taxonomy.SectionDemographics, "ctx", items)

	if strings.Contains(prompt, long) {
		t.Error("body not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", maxBodyChars)) {
		t.Error("truncated body missing")
	}
}

func TestComposePromptPurchaseIntentInstructions(t *testing.T) {
	items := []evidence.Item{{Subject: "s", Sender: "a@b.c", Body: "b"}}

	withFlag := composePrompt(taxonomy.SectionPurchaseIntent, "ctx", items)
	if !strings.Contains(withFlag, "PIPR_HIGH") {
		t.Error("purchase intent sections should instruct on intent flags")
	}

	without := composePrompt(taxonomy.SectionInterests, "ctx", items)
	if strings.Contains(without, "PIPR_HIGH") {
		t.Error("intent flag instructions leaked into non-intent section")
	}
}

func TestFilterFindings(t *testing.T) {
	findings := []Finding{
		{TaxonomyID: 210, Value: "Golf", Confidence: 0.85, EvidenceNumbers: []int{1, 2}},
		{TaxonomyID: 0, Value: "Golf", Confidence: 0.85},
		{TaxonomyID: 211, Value: "", Confidence: 0.85},
		{TaxonomyID: 212, Value: "Tennis", Confidence: 1.3},
		{TaxonomyID: 213, Value: "Sailing", Confidence: -0.1},
		{TaxonomyID: 214, Value: "Hiking", Confidence: 0.7, EvidenceNumbers: []int{0, 2, 5}},
	}

	valid := filterFindings(findings, 3)

	if len(valid) != 2 {
		t.Fatalf("got %d valid findings, want 2", len(valid))
	}
	if valid[0].TaxonomyID != 210 || len(valid[0].EvidenceNumbers) != 2 {
		t.Errorf("first finding: %+v", valid[0])
	}
	if valid[1].TaxonomyID != 214 {
		t.Errorf("second finding: %+v", valid[1])
	}
	if len(valid[1].EvidenceNumbers) != 1 || valid[1].EvidenceNumbers[0] != 2 {
		t.Errorf("out-of-batch evidence numbers kept: %v", valid[1].EvidenceNumbers)
	}
}

func TestFilterFindingsEmpty(t *testing.T) {
	if got := filterFindings(nil, 5); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
