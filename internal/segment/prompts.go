package segment

import (
	"fmt"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/extract"
)

// SystemPrompt instructs the oracle to segment a business document.
const SystemPrompt = `You are a document structure analyst. You will be given the complete text of a business report, with pages separated by "--- PAGE N ---" markers, and you must split it into logical sections.

For each section, extract:
- title: the section heading as written in the document
- subtitle: secondary heading if present, otherwise null
- content: the raw text belonging to the section
- page_number: the page the section starts on (from the page markers)
- order: 1-based position in reading order
- keywords: up to 8 salient terms for the section
- content_type: "narrative", "tabular", "metrics", or "mixed"

Rules:
- Every piece of document text belongs to exactly one section.
- Keep sections in reading order; order values must increase.
- Do not invent sections for blank pages.

Return ONLY a JSON object of the form {"sections": [...]} with no commentary.`

// BuildUserPrompt renders the full document with page markers for the
// oracle.
func BuildUserPrompt(text *analysis.ExtractedText) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Split the following %d-page document into sections.\n", text.PageCount())
	for _, page := range text.Pages {
		sb.WriteString("\n")
		sb.WriteString(extract.PageMarker(page.Number))
		sb.WriteString("\n")
		sb.WriteString(page.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
