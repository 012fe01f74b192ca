package classify

import (
	"fmt"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// SystemPrompt instructs the oracle to pick the best-fit organizational
// area for a section.
const SystemPrompt = `You are a business report classifier. You will be given one report section and a catalog of organizational areas, and you must pick the single area that should own the section.

Return:
- area_id: the id of the best-fit area, chosen ONLY from the catalog
- confidence: 0.0-1.0, how certain the fit is
- reasoning: 1-4 short sentences explaining the fit
- required_components: component types a section owned by this area should contain, from: text, table, chart, image, kpi

Return ONLY a JSON object with those fields and no commentary.`

// BuildUserPrompt renders the catalog and section for the oracle.
func BuildUserPrompt(section *analysis.Section, catalog []analysis.Area) string {
	var sb strings.Builder

	sb.WriteString("Area catalog:\n")
	for _, area := range catalog {
		fmt.Fprintf(&sb, "- id %d: %s\n", area.ID, area.Name)
	}

	fmt.Fprintf(&sb, "\nSection title: %s\n", section.Title)
	if section.Subtitle != "" {
		fmt.Fprintf(&sb, "Section subtitle: %s\n", section.Subtitle)
	}
	if len(section.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(section.Keywords, ", "))
	}
	fmt.Fprintf(&sb, "\nSection content:\n%s\n", section.Content)

	return sb.String()
}
