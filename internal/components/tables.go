package components

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
)

// TableCaption is the caption assigned to every detected table.
const TableCaption = "Detected table"

var (
	// pipeTableRe matches two or more consecutive pipe-delimited rows.
	// Blank lines bound the block, so consecutive tables separated by a
	// blank line match separately.
	pipeTableRe = regexp.MustCompile(`(?m)(?:^[ \t]*\|.*\|[ \t]*(?:\n|$)){2,}`)

	// boxTableRe matches blocks of two or more consecutive lines drawn with
	// box-drawing characters.
	boxTableRe = regexp.MustCompile(`(?m)(?:^.*[│┃┌┐└┘├┤┬┴┼─═║╔╗╚╝╠╣╦╩╬].*(?:\n|$)){2,}`)
)

// DetectTables scans section content for structural table patterns. Every
// non-overlapping match becomes a Table component anchored to pageNum with
// unknown geometry. Detection is deterministic; no oracle involved.
func DetectTables(content string, pageNum int) []analysis.Component {
	var tables []analysis.Component

	matched := make([]span, 0, 4)
	for _, loc := range pipeTableRe.FindAllStringIndex(content, -1) {
		matched = append(matched, span{loc[0], loc[1]})
		tables = append(tables, tableComponent(content[loc[0]:loc[1]], pageNum))
	}

	// Box-drawing blocks that overlap a pipe table are the same table.
	for _, loc := range boxTableRe.FindAllStringIndex(content, -1) {
		if overlapsAny(span{loc[0], loc[1]}, matched) {
			continue
		}
		tables = append(tables, tableComponent(content[loc[0]:loc[1]], pageNum))
	}

	return tables
}

type span struct{ start, end int }

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

func tableComponent(content string, pageNum int) analysis.Component {
	return analysis.Component{
		ID:      uuid.New().String(),
		Type:    analysis.ComponentTypeTable,
		Content: strings.TrimRight(content, "\n"),
		Caption: TableCaption,
		Position: analysis.Position{
			Page: pageNum, // x/y/width/height unknown
		},
	}
}
