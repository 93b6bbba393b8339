package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Source column layout: column 0 is blank, followed by id, parent_id, name,
// and the five tier labels. The first headerRows rows carry titles and
// column headers and are skipped.
const (
	headerRows = 10

	colID      = 1
	colParent  = 2
	colName    = 3
	colTier1   = 4
	sourceCols = 9
)

// parseRows reads taxonomy entries from the consolidated CSV export.
// Rows with an empty id column are skipped; the returned entries preserve
// source order and record their 1-indexed source row.
func parseRows(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var entries []Entry
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrSourceInvalid, row+1, err)
		}

		row++
		if row <= headerRows {
			continue
		}

		entry, ok, err := parseEntry(record, row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseEntry(record []string, row int) (Entry, bool, error) {
	if len(record) <= colID || strings.TrimSpace(record[colID]) == "" {
		return Entry{}, false, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(record[colID]))
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: row %d: bad id %q", ErrSourceInvalid, row, record[colID])
	}

	entry := Entry{
		ID:  id,
		Row: row,
	}

	if v := field(record, colParent); v != "" {
		parent, err := strconv.Atoi(v)
		if err != nil {
			return Entry{}, false, fmt.Errorf("%w: row %d: bad parent_id %q", ErrSourceInvalid, row, v)
		}
		entry.ParentID = parent
	}

	entry.Name = field(record, colName)
	for i := range entry.Tiers {
		entry.Tiers[i] = field(record, colTier1+i)
	}

	return entry, true, nil
}

// parsePurchaseCodes reads the purchase-intent classification sheet
// (code, description) and returns the PIP* code table. Two header rows
// precede the data; non-code rows are section labels and are skipped.
func parsePurchaseCodes(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	codes := make(map[string]string)
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: purchase codes row %d: %w", ErrSourceInvalid, row+1, err)
		}

		row++
		if row <= 2 || len(record) < 2 {
			continue
		}

		code := strings.TrimSpace(record[0])
		if !strings.HasPrefix(code, "PIP") {
			continue
		}

		codes[code] = strings.TrimSpace(record[1])
	}

	return codes, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
