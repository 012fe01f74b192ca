// Package classify scores sections against the fixed area catalog and
// proposes best-fit assignments. Classification failures are section-local:
// the result is always exactly one assignment per section, falling back to
// the first catalog entry at zero confidence when the oracle is unusable.
package classify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

// Fallback reasoning strings recorded on default assignments.
const (
	reasonInvalidArea = "fallback: invalid area returned"
	reasonOracleError = "fallback: classification unavailable"
)

// Classifier assigns sections to areas.
type Classifier struct {
	oracle providers.Oracle
	logger *slog.Logger
}

// New creates a Classifier.
func New(oracle providers.Oracle, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{oracle: oracle, logger: logger}
}

// Classify returns exactly one assignment for the section. The returned
// area id is always a member of the catalog: an out-of-catalog id from the
// oracle, or any oracle failure, produces the default assignment instead.
// Assignments are independent across sections.
func (c *Classifier) Classify(ctx context.Context, section *analysis.Section, catalog []analysis.Area) analysis.AreaAssignment {
	req := &providers.TextRequest{
		System:    SystemPrompt,
		Prompt:    BuildUserPrompt(section, catalog),
		RequestID: "classify-" + uuid.New().String(),
	}

	result, err := c.oracle.GenerateText(ctx, req)
	if err != nil {
		c.logger.Warn("classification oracle call failed, using default assignment",
			"section_id", section.ID, "section_title", section.Title, "error", err)
		return defaultAssignment(section, catalog, reasonOracleError)
	}

	var resp response
	if err := providers.ParseAndValidate(result.Content, ResponseSchema, &resp); err != nil {
		c.logger.Warn("classification response rejected, using default assignment",
			"section_id", section.ID, "section_title", section.Title, "error", err)
		return defaultAssignment(section, catalog, reasonOracleError)
	}

	area, ok := catalogLookup(catalog, resp.AreaID)
	if !ok {
		c.logger.Warn("classification returned area outside catalog, using default assignment",
			"section_id", section.ID, "area_id", resp.AreaID)
		return defaultAssignment(section, catalog, reasonInvalidArea)
	}

	return analysis.AreaAssignment{
		SectionID:          section.ID,
		SectionTitle:       section.Title,
		AreaID:             area.ID,
		AreaName:           area.Name,
		Confidence:         resp.Confidence,
		Reasoning:          resp.Reasoning,
		RequiredComponents: componentTypes(resp.RequiredComponents),
	}
}

// catalogLookup finds an area by id.
func catalogLookup(catalog []analysis.Area, id int) (analysis.Area, bool) {
	for _, area := range catalog {
		if area.ID == id {
			return area, true
		}
	}
	return analysis.Area{}, false
}

// componentTypes keeps only valid component type names.
func componentTypes(names []string) []analysis.ComponentType {
	var types []analysis.ComponentType
	for _, name := range names {
		if analysis.ValidComponentType(name) {
			types = append(types, analysis.ComponentType(name))
		}
	}
	return types
}

// defaultAssignment is the degraded verdict: first catalog entry at zero
// confidence, flagged as fallback.
func defaultAssignment(section *analysis.Section, catalog []analysis.Area, reason string) analysis.AreaAssignment {
	first := catalog[0]
	return analysis.AreaAssignment{
		SectionID:    section.ID,
		SectionTitle: section.Title,
		AreaID:       first.ID,
		AreaName:     first.Name,
		Confidence:   0.0,
		Reasoning:    []string{reason},
		IsFallback:   true,
	}
}
