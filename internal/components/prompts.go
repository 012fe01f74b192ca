package components

import "fmt"

// KPISystemPrompt instructs the oracle to enumerate named metrics.
const KPISystemPrompt = `You are a financial and business metrics extractor. You will be given the text of one report section and must enumerate the named metrics (KPIs) it states.

A KPI is a named quantity with an explicit value in the text: totals, percentages, growth rates, counts, amounts. Do not derive or compute values that are not written in the text.

For each KPI return:
- name: the metric name as written
- value: the value as written, including units or % signs
- description: one short sentence of context, or null

Return ONLY a JSON object of the form {"kpis": [...]} with no commentary. If the section states no metrics, return {"kpis": []}.`

// BuildKPIPrompt renders the user prompt for one section.
func BuildKPIPrompt(content string, pageNum int) string {
	return fmt.Sprintf("Extract the KPIs from this section (page %d):\n\n%s", pageNum, content)
}
