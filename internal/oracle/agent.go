package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mosaicintel/mosaic/internal/evidence"
	"github.com/mosaicintel/mosaic/internal/taxonomy"
	"github.com/mosaicintel/mosaic/pkg/formatting"
)

type classifyResponse struct {
	Classifications []Finding `json:"classifications"`
}

type agentOracle struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// NewAgent creates an Oracle backed by a go-agents chat model. A fresh agent
// is created per call so concurrent section analyses do not share state.
func NewAgent(cfg gaconfig.AgentConfig, logger *slog.Logger) Oracle {
	return &agentOracle{
		cfg:    cfg,
		logger: logger.With("system", "oracle"),
	}
}

func (o *agentOracle) Classify(ctx context.Context, section taxonomy.Section, taxonomyContext string, items []evidence.Item) ([]Finding, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	a, err := agent.New(&o.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrClassifyFailed, err)
	}

	prompt := composePrompt(section, taxonomyContext, items)

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrClassifyFailed, err)
	}

	parsed, err := formatting.Parse[classifyResponse](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrClassifyFailed, err)
	}

	findings := filterFindings(parsed.Classifications, len(items))

	o.logger.Debug("batch classified",
		"section", section.String(),
		"items", len(items),
		"findings", len(findings),
	)

	return findings, nil
}

// filterFindings drops structurally invalid findings: missing ids or values,
// confidence outside [0, 1], or evidence numbers outside the batch.
func filterFindings(findings []Finding, batchSize int) []Finding {
	valid := make([]Finding, 0, len(findings))

	for _, f := range findings {
		if f.TaxonomyID <= 0 || f.Value == "" {
			continue
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			continue
		}

		numbers := make([]int, 0, len(f.EvidenceNumbers))
		for _, n := range f.EvidenceNumbers {
			if n >= 1 && n <= batchSize {
				numbers = append(numbers, n)
			}
		}
		f.EvidenceNumbers = numbers

		valid = append(valid, f)
	}

	return valid
}
