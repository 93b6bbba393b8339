package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mosaicintel/mosaic/internal/batch"
	"github.com/mosaicintel/mosaic/internal/classification"
	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/memory"
	"github.com/mosaicintel/mosaic/internal/oracle"
	"github.com/mosaicintel/mosaic/internal/pipeline"
	"github.com/mosaicintel/mosaic/internal/profile"
	"github.com/mosaicintel/mosaic/internal/reconcile"
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

func buildIndex(t *testing.T) *taxonomy.Index {
	t.Helper()
	entries := []taxonomy.Entry{
		entry(1, 1, 11, "Age", "Demographic", "Age"),
		entry(2, 1, 12, "25-34", "Demographic", "Age", "25-34"),
		entry(10, 10, 209, "Sports", "Interests", "Sports"),
		entry(11, 10, 210, "Golf", "Interests", "Sports", "Golf"),
	}
	return taxonomy.Build(entries, nil, discard())
}

// scriptedOracle returns fixed findings per section and counts calls.
type scriptedOracle struct {
	findings map[taxonomy.Section][]oracle.Finding
	calls    int
}

func (o *scriptedOracle) Classify(ctx context.Context, section taxonomy.Section, taxonomyContext string, items []evidence.Item) ([]oracle.Finding, error) {
	o.calls++
	return o.findings[section], nil
}

func newRuntime(t *testing.T, store memory.Store, source *evidence.StoreSource, model oracle.Oracle) *pipeline.Runtime {
	t.Helper()
	logger := discard()
	idx := buildIndex(t)

	return &pipeline.Runtime{
		Taxonomy:   idx,
		Oracle:     model,
		Source:     source,
		Reconciler: reconcile.New(store, logger),
		Aggregator: classification.NewAggregator(idx, logger, classification.DefaultOptions()),
		Profiles:   profile.NewService(store, nil, logger),
		Batch:      batch.DefaultOptions(),
		Sections:   []taxonomy.Section{taxonomy.SectionDemographics, taxonomy.SectionInterests},
		Logger:     logger,
	}
}

func seedEvidence(t *testing.T, source *evidence.StoreSource, userID string, subjects ...string) {
	t.Helper()
	items := make([]evidence.Item, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, evidence.Item{Subject: subject, Body: "body"})
	}
	if _, err := source.Add(context.Background(), userID, items); err != nil {
		t.Fatalf("seed evidence: %v", err)
	}
}

func TestExecuteFullRun(t *testing.T) {
	store := memory.NewInMemory()
	source := evidence.NewStoreSource(store, discard())
	model := &scriptedOracle{findings: map[taxonomy.Section][]oracle.Finding{
		taxonomy.SectionDemographics: {
			{TaxonomyID: 2, Value: "25-34", Confidence: 0.8, EvidenceNumbers: []int{1}},
		},
		taxonomy.SectionInterests: {
			{TaxonomyID: 11, Value: "Golf", Confidence: 0.9, EvidenceNumbers: []int{1, 2}},
		},
	}}

	rt := newRuntime(t, store, source, model)
	seedEvidence(t, source, "u1", "Happy 30th birthday", "Tee time confirmed")

	result, err := pipeline.Execute(context.Background(), rt, "u1", time.Time{})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if result.UserID != "u1" || result.EmailsProcessed != 2 {
		t.Errorf("result identity: %+v", result)
	}
	if result.Added != 2 || result.Updated != 0 {
		t.Errorf("counts: added=%d updated=%d", result.Added, result.Updated)
	}
	if result.Run != nil {
		t.Error("run recorded without tracking configured")
	}
	if model.calls != 2 {
		t.Errorf("oracle calls: got %d, want one per section", model.calls)
	}

	if result.Profile == nil {
		t.Fatal("profile missing from result")
	}
	group, ok := result.Profile.TieredClassifications.Demographics["age_range"]
	if !ok {
		t.Fatalf("age_range missing: %v", result.Profile.TieredClassifications.Demographics)
	}
	if group.Primary.TaxonomyID != 2 || group.Primary.Value != "25-34" {
		t.Errorf("age primary: %+v", group.Primary)
	}

	interests := result.Profile.TieredClassifications.Interests
	if len(interests) != 1 || interests[0].Primary.Value != "Golf" {
		t.Errorf("interests: %+v", interests)
	}
}

func TestExecuteSecondRunUpdates(t *testing.T) {
	store := memory.NewInMemory()
	source := evidence.NewStoreSource(store, discard())
	model := &scriptedOracle{findings: map[taxonomy.Section][]oracle.Finding{
		taxonomy.SectionDemographics: {
			{TaxonomyID: 2, Value: "25-34", Confidence: 0.8, EvidenceNumbers: []int{1}},
		},
	}}

	rt := newRuntime(t, store, source, model)
	seedEvidence(t, source, "u1", "Birthday plans")

	first, err := pipeline.Execute(context.Background(), rt, "u1", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := pipeline.Execute(context.Background(), rt, "u1", time.Time{})
	if err != nil {
		t.Fatal(err)
	}

	if first.Added != 1 || first.Updated != 0 {
		t.Errorf("first run: added=%d updated=%d", first.Added, first.Updated)
	}
	if second.Added != 0 || second.Updated != 1 {
		t.Errorf("second run: added=%d updated=%d", second.Added, second.Updated)
	}

	group := second.Profile.TieredClassifications.Demographics["age_range"]
	if group.Primary.Confidence <= 0.8 {
		t.Errorf("confirming evidence should raise confidence: got %v", group.Primary.Confidence)
	}
}

func TestExecuteNoEvidenceStillFinalizes(t *testing.T) {
	store := memory.NewInMemory()
	source := evidence.NewStoreSource(store, discard())
	model := &scriptedOracle{}

	rt := newRuntime(t, store, source, model)

	result, err := pipeline.Execute(context.Background(), rt, "u1", time.Time{})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.EmailsProcessed != 0 || result.Added != 0 {
		t.Errorf("empty run: %+v", result)
	}
	if model.calls != 0 {
		t.Errorf("oracle called with no evidence: %d calls", model.calls)
	}
	if result.Profile == nil {
		t.Error("profile snapshot not written on empty run")
	}

	svc := profile.NewService(store, nil, discard())
	if _, err := svc.Load(context.Background(), "u1"); err != nil {
		t.Errorf("profile not persisted: %v", err)
	}
}
