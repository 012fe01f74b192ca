// Package components scans section content for embeddable structural
// components: tables through deterministic pattern matching, KPIs through
// oracle-assisted extraction. Identification failures are section-local and
// never abort a run.
package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

// Identifier finds components within one section's content.
type Identifier struct {
	oracle providers.Oracle
	logger *slog.Logger
}

// New creates an Identifier.
func New(oracle providers.Oracle, logger *slog.Logger) *Identifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Identifier{oracle: oracle, logger: logger}
}

// Identify returns the ordered components found in the section content:
// detected tables first, then KPIs. An oracle failure yields zero KPI
// components for this section, logged as a warning.
func (id *Identifier) Identify(ctx context.Context, sectionID, content string, pageNum int) []analysis.Component {
	comps := DetectTables(content, pageNum)

	kpis, err := id.extractKPIs(ctx, content, pageNum)
	if err != nil {
		id.logger.Warn("KPI extraction failed, section gets no KPI components",
			"section_id", sectionID, "page", pageNum, "error", err)
		return comps
	}
	return append(comps, kpis...)
}

// extractKPIs asks the oracle to enumerate named metrics in the section.
func (id *Identifier) extractKPIs(ctx context.Context, content string, pageNum int) ([]analysis.Component, error) {
	req := &providers.TextRequest{
		System:    KPISystemPrompt,
		Prompt:    BuildKPIPrompt(content, pageNum),
		RequestID: "kpi-" + uuid.New().String(),
	}

	result, err := id.oracle.GenerateText(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp kpiResponse
	if err := providers.ParseAndValidate(result.Content, KPISchema, &resp); err != nil {
		return nil, err
	}

	comps := make([]analysis.Component, 0, len(resp.KPIs))
	for _, kpi := range resp.KPIs {
		c := analysis.Component{
			ID:      uuid.New().String(),
			Type:    analysis.ComponentTypeKPI,
			Content: fmt.Sprintf("%s: %s", kpi.Name, kpi.Value),
			Position: analysis.Position{
				Page: pageNum,
			},
			DataSources: []string{kpi.Name},
		}
		if kpi.Description != nil {
			c.Caption = *kpi.Description
		}
		comps = append(comps, c)
	}
	return comps, nil
}
