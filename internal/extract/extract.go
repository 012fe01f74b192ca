// Package extract pulls per-page plain text out of source documents. It is
// the only pipeline stage that touches the document bytes; everything
// downstream works from the immutable ExtractedText it produces.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/informeapp/informe/internal/analysis"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatXLSX     Format = "xlsx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// DocumentReadError means the source document is unreadable or corrupt.
// It is the only fatal failure the pipeline produces.
type DocumentReadError struct {
	Format Format
	Err    error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("document unreadable (%s): %v", e.Format, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// DetectFormat maps a filename to a Format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".txt":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported document format: %s", filepath.Ext(filename))
}

// Extract produces the per-page text for a document held in memory. The
// result always contains exactly one entry per source page, in page order,
// with empty pages kept as empty entries.
func Extract(data []byte, format Format) (*analysis.ExtractedText, error) {
	if len(data) == 0 {
		return nil, &DocumentReadError{Format: format, Err: fmt.Errorf("empty document")}
	}

	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatXLSX:
		return extractXLSX(data)
	case FormatText, FormatMarkdown:
		return extractText(data), nil
	}
	return nil, &DocumentReadError{Format: format, Err: fmt.Errorf("unsupported format")}
}
