// Package synth converts classified sections into reusable section
// templates: ordered component placeholders plus authoring instructions.
// Synthesis failures are local; the orchestrator omits the section's
// template rather than aborting the run.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

// PlaceholderAreaName marks templates synthesized from a fallback
// assignment; the real area is unknown in that case.
const PlaceholderAreaName = "General"

// Synthesizer builds section templates.
type Synthesizer struct {
	oracle providers.Oracle
	logger *slog.Logger
}

// New creates a Synthesizer.
func New(oracle providers.Oracle, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{oracle: oracle, logger: logger}
}

// Synthesize builds one template from a section and its assignment. The
// assignment is trusted as-is; a fallback assignment still yields a
// template, flagged with the generic placeholder area name. A returned
// error means this section is omitted from the generated-templates list.
func (s *Synthesizer) Synthesize(ctx context.Context, section *analysis.Section, assignment *analysis.AreaAssignment) (*analysis.SectionTemplate, error) {
	req := &providers.TextRequest{
		System:    SystemPrompt,
		Prompt:    BuildUserPrompt(section, assignment),
		RequestID: "synth-" + uuid.New().String(),
	}

	result, err := s.oracle.GenerateText(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesis oracle call failed: %w", err)
	}

	var resp response
	if err := providers.ParseAndValidate(result.Content, ResponseSchema, &resp); err != nil {
		return nil, fmt.Errorf("synthesis response rejected: %w", err)
	}
	if len(resp.Components) == 0 {
		return nil, fmt.Errorf("synthesis response contained no components")
	}

	areaName := assignment.AreaName
	if assignment.IsFallback {
		areaName = PlaceholderAreaName
	}

	tmpl := &analysis.SectionTemplate{
		SectionID:    section.ID,
		SectionTitle: section.Title,
		AreaID:       assignment.AreaID,
		AreaName:     areaName,
		Instructions: resp.Instructions,
		Components:   make([]analysis.ComponentTemplate, 0, len(resp.Components)),
	}

	dataSources := map[string]struct{}{}
	for i, rc := range resp.Components {
		order := rc.Order
		if order <= 0 {
			order = i + 1
		}
		ct := analysis.ComponentTemplate{
			ID:         uuid.New().String(),
			Type:       analysis.ComponentType(rc.Type),
			Title:      rc.Title,
			Required:   rc.Required,
			Order:      order,
			DataFields: rc.DataFields,
		}
		if rc.Description != nil {
			ct.Description = *rc.Description
		}
		if rc.DefaultValue != nil {
			ct.DefaultValue = *rc.DefaultValue
		}
		tmpl.Components = append(tmpl.Components, ct)

		for _, field := range rc.DataFields {
			dataSources[field] = struct{}{}
		}
	}
	sort.SliceStable(tmpl.Components, func(i, j int) bool {
		return tmpl.Components[i].Order < tmpl.Components[j].Order
	})

	// Fields the section's identified components already reference count as
	// required inputs too.
	for _, c := range section.Components {
		for _, field := range c.DataSources {
			dataSources[field] = struct{}{}
		}
	}
	tmpl.RequiredDataSources = sortedKeys(dataSources)

	s.logger.Info("section template synthesized",
		"section_id", section.ID, "components", len(tmpl.Components), "area", areaName)
	return tmpl, nil
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
