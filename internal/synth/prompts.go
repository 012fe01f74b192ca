package synth

import (
	"fmt"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// SystemPrompt instructs the oracle to turn a classified section into a
// reusable template.
const SystemPrompt = `You are a report template designer. You will be given one section of an analyzed business report, and you must design a reusable template for authoring that section in future reports.

Design an ordered list of component placeholders. For each placeholder return:
- type: one of text, table, chart, image, kpi
- title: short placeholder title
- description: what the author should put here, or null
- required: whether the component must be filled in
- order: 1-based position
- default_value: optional pre-filled value, or null
- data_fields: field names the component draws data from

Also return "instructions": 1-3 sentences guiding a human author completing the section.

Mirror the structure actually present in the section: if it contains tables or KPIs, the template should include placeholders of those types. Return ONLY a JSON object with "components" and "instructions".`

// BuildUserPrompt renders the section and its identified structure.
func BuildUserPrompt(section *analysis.Section, assignment *analysis.AreaAssignment) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Section title: %s\n", section.Title)
	fmt.Fprintf(&sb, "Assigned area: %s\n", assignment.AreaName)

	if len(section.Components) > 0 {
		types := make([]string, 0, len(section.Components))
		for _, c := range section.Components {
			types = append(types, string(c.Type))
		}
		fmt.Fprintf(&sb, "Identified components: %s\n", strings.Join(types, ", "))
	}
	if len(assignment.RequiredComponents) > 0 {
		types := make([]string, 0, len(assignment.RequiredComponents))
		for _, t := range assignment.RequiredComponents {
			types = append(types, string(t))
		}
		fmt.Fprintf(&sb, "Area-required components: %s\n", strings.Join(types, ", "))
	}

	fmt.Fprintf(&sb, "\nSection content:\n%s\n", section.Content)
	return sb.String()
}
