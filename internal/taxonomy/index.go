// Package taxonomy loads the hierarchical audience taxonomy and precomputes
// the lookup and grouping metadata consumed by classification. The Index is
// built once at startup and is immutable afterwards, so it is safe to share
// across concurrent callers without locking.
package taxonomy

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// Index provides id, parent, and section lookups over the loaded taxonomy.
type Index struct {
	entries  []Entry
	byID     map[int]*Entry
	children map[int][]int
	sections map[Section][]*Entry
	codes    map[string]string
}

// Load reads the taxonomy and purchase-code sources from disk and builds an
// Index. A missing taxonomy source is fatal; a missing purchase-code path
// ("" disables it) is not.
func Load(sourcePath, purchaseCodesPath string, logger *slog.Logger) (*Index, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, sourcePath)
	}
	defer f.Close()

	entries, err := parseRows(f)
	if err != nil {
		return nil, err
	}

	codes := map[string]string{}
	if purchaseCodesPath != "" {
		pf, err := os.Open(purchaseCodesPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, purchaseCodesPath)
		}
		defer pf.Close()

		codes, err = parsePurchaseCodes(pf)
		if err != nil {
			return nil, err
		}
	}

	idx := Build(entries, codes, logger)

	logger.Info(
		"taxonomy loaded",
		"entries", len(idx.entries),
		"purchase_codes", len(idx.codes),
	)

	return idx, nil
}

// Build constructs an Index from already-parsed entries. It computes the id
// and parent-child indexes, partitions entries into sections by source row,
// and derives grouping metadata for every entry. Tests use Build directly
// with small fabricated taxonomies.
func Build(entries []Entry, codes map[string]string, logger *slog.Logger) *Index {
	idx := &Index{
		entries:  make([]Entry, len(entries)),
		byID:     make(map[int]*Entry, len(entries)),
		children: make(map[int][]int),
		sections: make(map[Section][]*Entry),
		codes:    make(map[string]string, len(codes)),
	}
	copy(idx.entries, entries)

	for k, v := range codes {
		idx.codes[k] = v
	}

	for i := range idx.entries {
		e := &idx.entries[i]
		idx.byID[e.ID] = e

		if !e.selfParented() {
			idx.children[e.ParentID] = append(idx.children[e.ParentID], e.ID)
		}

		for _, s := range Sections() {
			if sectionRanges[s].contains(e.Row) {
				idx.sections[s] = append(idx.sections[s], e)
				break
			}
		}
	}

	idx.computeGrouping(logger)

	return idx
}

// Get returns the entry with the given id.
func (x *Index) Get(id int) (*Entry, bool) {
	e, ok := x.byID[id]
	return e, ok
}

// Children returns the direct children of the given entry id in source order.
func (x *Index) Children(id int) []*Entry {
	ids := x.children[id]
	out := make([]*Entry, 0, len(ids))
	for _, childID := range ids {
		if e, ok := x.byID[childID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Section returns all entries whose source row falls in the section's range.
func (x *Index) Section(s Section) []*Entry {
	return x.sections[s]
}

// Len returns the number of loaded entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// PurchaseCode returns the description for a purchase-intent code.
func (x *Index) PurchaseCode(code string) (string, bool) {
	desc, ok := x.codes[code]
	return desc, ok
}

// SearchByName returns entries whose name contains the term, case-insensitive,
// in source order.
func (x *Index) SearchByName(term string) []*Entry {
	var out []*Entry
	for i := range x.entries {
		e := &x.entries[i]
		if containsFold(e.Name, term) {
			out = append(out, e)
		}
	}
	return out
}

// groupingValues returns the distinct grouping values present among entries,
// sorted for stable prompt output.
func groupingValues(entries []*Entry) []string {
	seen := make(map[string]bool)
	var values []string
	for _, e := range entries {
		if e.GroupingValue == "" || seen[e.GroupingValue] {
			continue
		}
		seen[e.GroupingValue] = true
		values = append(values, e.GroupingValue)
	}
	sort.Strings(values)
	return values
}
