package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// UntitledDocument is the title used when no line qualifies.
const UntitledDocument = "Untitled Document"

const (
	titleScanLines = 10
	titleMinLen    = 5   // exclusive
	titleMaxLen    = 100 // exclusive
)

// pageDelimiterRe matches the page markers inserted when rendering the
// document for the oracle, e.g. "--- PAGE 3 ---".
var pageDelimiterRe = regexp.MustCompile(`(?i)^-{2,}\s*PAGE\s+\d+\s*-{2,}$`)

// DocumentTitle scans the first non-empty lines of the concatenated text and
// returns the first plausible title line: trimmed length strictly between 5
// and 100 characters and not a page-delimiter marker.
func DocumentTitle(text *analysis.ExtractedText) string {
	scanned := 0
	for _, line := range strings.Split(text.FullText(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > titleScanLines {
			break
		}
		if pageDelimiterRe.MatchString(line) {
			continue
		}
		if n := len([]rune(line)); n > titleMinLen && n < titleMaxLen {
			return line
		}
	}
	return UntitledDocument
}

// PageMarker renders the delimiter line placed between pages when the full
// document is sent to the oracle.
func PageMarker(pageNum int) string {
	return "--- PAGE " + strconv.Itoa(pageNum) + " ---"
}
