package formatting_test

import (
	"errors"
	"testing"

	"github.com/mosaicintel/mosaic/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "1KB", 1024, false},
		{"megabytes", "50MB", 50 * 1024 * 1024, false},
		{"gigabytes", "2GB", 2 * 1024 * 1024 * 1024, false},
		{"lowercase unit", "10mb", 10 * 1024 * 1024, false},
		{"with space", "100 MB", 100 * 1024 * 1024, false},
		{"surrounding whitespace", "  50MB  ", 50 * 1024 * 1024, false},
		{"zero", "0", 0, false},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 500, 0, "500 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"50 MB", 50 * 1024 * 1024, 0, "50 MB"},
		{"fractional MB", 1536 * 1024, 1, "1.5 MB"},
		{"negative precision clamped", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

type findingsDoc struct {
	Classifications []struct {
		TaxonomyID int     `json:"taxonomy_id"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"classifications"`
}

func TestParseDirectJSON(t *testing.T) {
	content := `{"classifications": [{"taxonomy_id": 210, "value": "Golf", "confidence": 0.85}]}`

	doc, err := formatting.Parse[findingsDoc](content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Classifications) != 1 || doc.Classifications[0].TaxonomyID != 210 {
		t.Errorf("got %+v", doc)
	}
}

func TestParseFencedJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"json fence", "Here are the results:\n```json\n{\"classifications\": [{\"taxonomy_id\": 210, \"value\": \"Golf\", \"confidence\": 0.85}]}\n```"},
		{"bare fence", "```\n{\"classifications\": [{\"taxonomy_id\": 210, \"value\": \"Golf\", \"confidence\": 0.85}]}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := formatting.Parse[findingsDoc](tt.content)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if len(doc.Classifications) != 1 || doc.Classifications[0].Value != "Golf" {
				t.Errorf("got %+v", doc)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[findingsDoc]("I could not classify these emails.")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("got %v, want ErrParseFailed", err)
	}
}
