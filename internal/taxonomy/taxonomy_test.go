package taxonomy_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mosaicintel/mosaic/internal/taxonomy"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(id, parent, row int, name string, tiers ...string) taxonomy.Entry {
	e := taxonomy.Entry{ID: id, ParentID: parent, Name: name, Row: row}
	copy(e.Tiers[:], tiers)
	return e
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		name    string
		want    taxonomy.Section
		wantErr bool
	}{
		{"demographics", taxonomy.SectionDemographics, false},
		{"household", taxonomy.SectionHousehold, false},
		{"personal_attributes", taxonomy.SectionPersonalAttributes, false},
		{"personal_finance", taxonomy.SectionPersonalFinance, false},
		{"interests", taxonomy.SectionInterests, false},
		{"purchase_intent", taxonomy.SectionPurchaseIntent, false},
		{"Demographics", 0, true},
		{"", 0, true},
		{"finance", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := taxonomy.ParseSection(tc.name)
			if tc.wantErr {
				if !errors.Is(err, taxonomy.ErrUnknownSection) {
					t.Fatalf("expected ErrUnknownSection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSectionExclusive(t *testing.T) {
	for _, s := range taxonomy.Sections() {
		exclusive := s.Exclusive()
		switch s {
		case taxonomy.SectionInterests, taxonomy.SectionPurchaseIntent:
			if exclusive {
				t.Errorf("%s should not be exclusive", s)
			}
		default:
			if !exclusive {
				t.Errorf("%s should be exclusive", s)
			}
		}
	}
}

func TestEntryTiers(t *testing.T) {
	e := entry(1, 0, 11, "25-34", "Demographic", "Age", "25-34")

	if got := e.Depth(); got != 3 {
		t.Errorf("depth: got %d, want 3", got)
	}
	if got := e.Path(); got != "Demographic | Age | 25-34" {
		t.Errorf("path: got %q", got)
	}
	if got := e.DeepestTier(); got != "25-34" {
		t.Errorf("deepest tier: got %q", got)
	}
	if got := e.Tier(2); got != "Age" {
		t.Errorf("tier 2: got %q", got)
	}
	if got := e.Tier(0); got != "" {
		t.Errorf("tier 0: got %q, want empty", got)
	}
	if got := e.Tier(6); got != "" {
		t.Errorf("tier 6: got %q, want empty", got)
	}
}

func TestBuildGrouping(t *testing.T) {
	entries := []taxonomy.Entry{
		// root with no tier_3 groups by its own tier_2
		entry(1, 0, 11, "Age", "Demographic", "Age"),
		// child of 1 with own tier_3 groups by it
		entry(2, 1, 12, "25-34", "Demographic", "Age", "25-34"),
		// root with tier_3 groups by tier_3
		entry(10, 10, 64, "Home Location", "Household", "Residence", "Home Location"),
		// child of 10 with no tier_3 inherits the parent's tier_3
		entry(11, 10, 65, "Urban", "Household", "Residence"),
	}

	idx := taxonomy.Build(entries, nil, discard())

	tests := []struct {
		id    int
		tier  taxonomy.TierKey
		value string
		root  bool
	}{
		{1, taxonomy.TierKey2, "Age", true},
		{2, taxonomy.TierKey3, "25-34", false},
		{10, taxonomy.TierKey3, "Home Location", true},
		{11, taxonomy.TierKey3, "Home Location", false},
	}

	for _, tc := range tests {
		e, ok := idx.Get(tc.id)
		if !ok {
			t.Fatalf("entry %d not found", tc.id)
		}
		if e.GroupingTier != tc.tier {
			t.Errorf("entry %d grouping tier: got %q, want %q", tc.id, e.GroupingTier, tc.tier)
		}
		if e.GroupingValue != tc.value {
			t.Errorf("entry %d grouping value: got %q, want %q", tc.id, e.GroupingValue, tc.value)
		}
		if e.GroupingRoot != tc.root {
			t.Errorf("entry %d grouping root: got %v, want %v", tc.id, e.GroupingRoot, tc.root)
		}
	}
}

func TestBuildSections(t *testing.T) {
	entries := []taxonomy.Entry{
		entry(1, 0, 11, "Age", "Demographic", "Age"),
		entry(2, 0, 64, "Residence", "Household", "Residence"),
		entry(3, 0, 209, "Golf", "Interest", "Sports", "Golf"),
		entry(4, 0, 707, "Sedans", "Purchase Intent", "Autos", "Sedans"),
	}

	idx := taxonomy.Build(entries, nil, discard())

	if got := len(idx.Section(taxonomy.SectionDemographics)); got != 1 {
		t.Errorf("demographics: got %d entries, want 1", got)
	}
	if got := len(idx.Section(taxonomy.SectionHousehold)); got != 1 {
		t.Errorf("household: got %d entries, want 1", got)
	}
	if got := len(idx.Section(taxonomy.SectionInterests)); got != 1 {
		t.Errorf("interests: got %d entries, want 1", got)
	}
	if got := len(idx.Section(taxonomy.SectionPurchaseIntent)); got != 1 {
		t.Errorf("purchase intent: got %d entries, want 1", got)
	}
}

func TestChildren(t *testing.T) {
	entries := []taxonomy.Entry{
		entry(1, 0, 11, "Age", "Demographic", "Age"),
		entry(2, 1, 12, "18-24", "Demographic", "Age", "18-24"),
		entry(3, 1, 13, "25-34", "Demographic", "Age", "25-34"),
	}

	idx := taxonomy.Build(entries, nil, discard())

	children := idx.Children(1)
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].ID != 2 || children[1].ID != 3 {
		t.Errorf("children out of order: %d, %d", children[0].ID, children[1].ID)
	}
}

func TestSearchByName(t *testing.T) {
	entries := []taxonomy.Entry{
		entry(1, 0, 209, "Golf", "Interest", "Sports", "Golf"),
		entry(2, 0, 210, "Golf Equipment", "Interest", "Sports", "Golf Equipment"),
		entry(3, 0, 211, "Tennis", "Interest", "Sports", "Tennis"),
	}

	idx := taxonomy.Build(entries, nil, discard())

	if got := len(idx.SearchByName("golf")); got != 2 {
		t.Errorf("case-insensitive search: got %d, want 2", got)
	}
	if got := len(idx.SearchByName("swimming")); got != 0 {
		t.Errorf("no-match search: got %d, want 0", got)
	}
}

func TestContextExcludesPlaceholders(t *testing.T) {
	entries := []taxonomy.Entry{
		entry(1, 0, 209, "Golf", "Interest", "Sports", "Golf"),
		entry(2, 0, 210, "Reserved", "Interest", "Sports", "*Extension"),
	}

	idx := taxonomy.Build(entries, nil, discard())
	ctx := idx.Context(taxonomy.SectionInterests)

	if !strings.Contains(ctx, "ID 1") {
		t.Error("context missing real entry")
	}
	if strings.Contains(ctx, "*Extension") {
		t.Error("context includes placeholder entry")
	}
}

func TestContextListsEntryIDs(t *testing.T) {
	entries := []taxonomy.Entry{
		entry(1, 0, 11, "Age", "Demographic", "Age"),
		entry(2, 1, 12, "18-24", "Demographic", "Age", "18-24"),
		entry(3, 1, 13, "25-34", "Demographic", "Age", "25-34"),
	}

	idx := taxonomy.Build(entries, nil, discard())
	ctx := idx.Context(taxonomy.SectionDemographics)

	for _, want := range []string{"ID 2", "ID 3", "25-34"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	var sb strings.Builder
	for range 10 {
		sb.WriteString(",,,,,,,,\n")
	}
	sb.WriteString(",1,,Age,Demographic,Age,,,\n")
	sb.WriteString(",2,1,18-24,Demographic,Age,18-24,,\n")
	sb.WriteString(",,,,,,,,\n")

	sourcePath := filepath.Join(dir, "taxonomy.csv")
	if err := os.WriteFile(sourcePath, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}

	codesPath := filepath.Join(dir, "codes.csv")
	codes := "Purchase Intent Codes,\nCode,Description\nPIPR_HIGH,High propensity to purchase\nSection Label,\n"
	if err := os.WriteFile(codesPath, []byte(codes), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := taxonomy.Load(sourcePath, codesPath, discard())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if idx.Len() != 2 {
		t.Errorf("got %d entries, want 2", idx.Len())
	}

	e, ok := idx.Get(2)
	if !ok {
		t.Fatal("entry 2 not found")
	}
	if e.ParentID != 1 || e.Tier(3) != "18-24" {
		t.Errorf("entry 2 parsed wrong: parent %d, tier3 %q", e.ParentID, e.Tier(3))
	}

	desc, ok := idx.PurchaseCode("PIPR_HIGH")
	if !ok || desc != "High propensity to purchase" {
		t.Errorf("purchase code: got %q, %v", desc, ok)
	}
}

func TestLoadMissingSource(t *testing.T) {
	_, err := taxonomy.Load(filepath.Join(t.TempDir(), "absent.csv"), "", discard())
	if !errors.Is(err, taxonomy.ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}
