package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// extractXLSX reads the worksheets of an Office Open XML spreadsheet. Each
// sheet becomes one page; rows are rendered pipe-delimited so the table
// detector picks them up downstream.
func extractXLSX(data []byte) (*analysis.ExtractedText, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DocumentReadError{Format: FormatXLSX, Err: fmt.Errorf("open zip: %w", err)}
	}

	shared, err := readSharedStrings(zr)
	if err != nil {
		return nil, &DocumentReadError{Format: FormatXLSX, Err: err}
	}

	sheets := sheetFiles(zr)
	if len(sheets) == 0 {
		return nil, &DocumentReadError{Format: FormatXLSX, Err: fmt.Errorf("no worksheets in archive")}
	}

	pages := make([]analysis.Page, 0, len(sheets))
	for i, f := range sheets {
		rows, err := readSheetRows(f, shared)
		if err != nil {
			return nil, &DocumentReadError{Format: FormatXLSX, Err: fmt.Errorf("sheet %s: %w", f.Name, err)}
		}
		pages = append(pages, analysis.Page{
			Number: i + 1,
			Text:   renderSheet(i+1, rows),
		})
	}

	return &analysis.ExtractedText{Pages: pages}, nil
}

var sheetNameRe = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)

// sheetFiles returns the worksheet entries in sheet-number order.
func sheetFiles(zr *zip.Reader) []*zip.File {
	var sheets []*zip.File
	for _, f := range zr.File {
		if sheetNameRe.MatchString(f.Name) {
			sheets = append(sheets, f)
		}
	}
	sort.Slice(sheets, func(i, j int) bool {
		ni, _ := strconv.Atoi(sheetNameRe.FindStringSubmatch(sheets[i].Name)[1])
		nj, _ := strconv.Atoi(sheetNameRe.FindStringSubmatch(sheets[j].Name)[1])
		return ni < nj
	})
	return sheets
}

// readSharedStrings parses xl/sharedStrings.xml. Missing file is fine; the
// workbook may hold inline values only.
func readSharedStrings(zr *zip.Reader) ([]string, error) {
	var file *zip.File
	for _, f := range zr.File {
		if f.Name == "xl/sharedStrings.xml" {
			file = f
			break
		}
	}
	if file == nil {
		return nil, nil
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open sharedStrings.xml: %w", err)
	}
	defer rc.Close()

	var strs []string
	var current strings.Builder
	var inSI, inT bool

	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inSI = true
				current.Reset()
			case "t":
				inT = inSI
			}
		case xml.CharData:
			if inT {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "si":
				inSI = false
				strs = append(strs, current.String())
			}
		}
	}
	return strs, nil
}

// readSheetRows walks one worksheet's XML and returns cell values per row.
func readSheetRows(f *zip.File, shared []string) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rows [][]string
	var row []string
	var cellType string
	var value strings.Builder
	var inValue bool

	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = nil
			case "c":
				cellType = ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "t" {
						cellType = attr.Value
					}
				}
			case "v", "t":
				inValue = true
				value.Reset()
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				row = append(row, resolveCell(cellType, value.String(), shared))
			case "row":
				if len(row) > 0 {
					rows = append(rows, row)
				}
			}
		}
	}
	return rows, nil
}

// resolveCell maps a raw cell value to its display string. Type "s" indexes
// the shared string table.
func resolveCell(cellType, raw string, shared []string) string {
	if cellType == "s" {
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil && idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	}
	return strings.TrimSpace(raw)
}

// renderSheet renders rows pipe-delimited, one row per line.
func renderSheet(num int, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sheet %d\n\n", num)
	for _, row := range rows {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
