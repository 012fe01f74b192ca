package extract

import (
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// extractText treats plain text and markdown as form-feed-paginated. A
// document without form feeds is a single page.
func extractText(data []byte) *analysis.ExtractedText {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\f")

	pages := make([]analysis.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, analysis.Page{
			Number: i + 1,
			Text:   strings.TrimRight(part, "\n"),
		})
	}
	return &analysis.ExtractedText{Pages: pages}
}
