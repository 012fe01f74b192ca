package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/informeapp/informe/internal/analysis"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"report.pdf", FormatPDF, false},
		{"REPORT.PDF", FormatPDF, false},
		{"numbers.xlsx", FormatXLSX, false},
		{"notes.txt", FormatText, false},
		{"readme.md", FormatMarkdown, false},
		{"readme.markdown", FormatMarkdown, false},
		{"archive.zip", "", true},
		{"noextension", "", true},
	}

	for _, tc := range cases {
		got, err := DetectFormat(tc.filename)
		if tc.wantErr {
			if err == nil {
				t.Errorf("DetectFormat(%q): expected error", tc.filename)
			}
			continue
		}
		if err != nil {
			t.Errorf("DetectFormat(%q): %v", tc.filename, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tc.filename, got, tc.want)
		}
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	_, err := Extract(nil, FormatText)
	var readErr *DocumentReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected DocumentReadError, got %v", err)
	}
	if readErr.Format != FormatText {
		t.Errorf("expected format txt, got %s", readErr.Format)
	}
}

func TestExtractText(t *testing.T) {
	t.Run("single page without form feeds", func(t *testing.T) {
		text, err := Extract([]byte("Quarterly Report\n\nRevenue is up."), FormatText)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if text.PageCount() != 1 {
			t.Fatalf("expected 1 page, got %d", text.PageCount())
		}
		if text.Pages[0].Number != 1 {
			t.Errorf("expected page number 1, got %d", text.Pages[0].Number)
		}
	})

	t.Run("form feeds paginate", func(t *testing.T) {
		text, err := Extract([]byte("page one\fpage two\fpage three"), FormatText)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if text.PageCount() != 3 {
			t.Fatalf("expected 3 pages, got %d", text.PageCount())
		}
		for i, p := range text.Pages {
			if p.Number != i+1 {
				t.Errorf("page %d has number %d", i, p.Number)
			}
		}
		if text.Pages[2].Text != "page three" {
			t.Errorf("unexpected page 3 text: %q", text.Pages[2].Text)
		}
	})

	t.Run("empty pages keep their slot", func(t *testing.T) {
		text, err := Extract([]byte("first\f\fthird"), FormatText)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if text.PageCount() != 3 {
			t.Fatalf("expected 3 pages, got %d", text.PageCount())
		}
		if text.Pages[1].Text != "" {
			t.Errorf("expected empty middle page, got %q", text.Pages[1].Text)
		}
	})

	t.Run("windows line endings normalized", func(t *testing.T) {
		text, err := Extract([]byte("line one\r\nline two"), FormatText)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if strings.Contains(text.Pages[0].Text, "\r") {
			t.Error("expected carriage returns stripped")
		}
	})
}

func TestDocumentTitle(t *testing.T) {
	pages := func(lines ...string) *analysis.ExtractedText {
		return &analysis.ExtractedText{Pages: []analysis.Page{
			{Number: 1, Text: strings.Join(lines, "\n")},
		}}
	}

	t.Run("first plausible line wins", func(t *testing.T) {
		text := pages("", "Annual Financial Report 2025", "Some body text here")
		if got := DocumentTitle(text); got != "Annual Financial Report 2025" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("short lines skipped", func(t *testing.T) {
		// 5 characters is too short; the boundary is exclusive.
		text := pages("Intro", "Operations Review")
		if got := DocumentTitle(text); got != "Operations Review" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("six characters is long enough", func(t *testing.T) {
		text := pages("Report")
		if got := DocumentTitle(text); got != "Report" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("hundred characters is too long", func(t *testing.T) {
		long := strings.Repeat("x", 100)
		text := pages(long, "Fallback Title Line")
		if got := DocumentTitle(text); got != "Fallback Title Line" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("ninety-nine characters qualifies", func(t *testing.T) {
		almost := strings.Repeat("y", 99)
		text := pages(almost)
		if got := DocumentTitle(text); got != almost {
			t.Errorf("got %q", got)
		}
	})

	t.Run("page delimiters never become titles", func(t *testing.T) {
		text := pages("--- PAGE 1 ---", "Marketing Summary")
		if got := DocumentTitle(text); got != "Marketing Summary" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("scan stops after ten non-empty lines", func(t *testing.T) {
		lines := make([]string, 0, 11)
		for i := 0; i < 10; i++ {
			lines = append(lines, "x") // too short to qualify
		}
		lines = append(lines, "A Perfectly Good Title")
		if got := DocumentTitle(pages(lines...)); got != UntitledDocument {
			t.Errorf("expected untitled fallback, got %q", got)
		}
	})

	t.Run("no qualifying line", func(t *testing.T) {
		if got := DocumentTitle(pages("", "abc", "")); got != UntitledDocument {
			t.Errorf("got %q", got)
		}
	})
}

func TestPageMarker(t *testing.T) {
	marker := PageMarker(3)
	if marker != "--- PAGE 3 ---" {
		t.Errorf("got %q", marker)
	}
	if !pageDelimiterRe.MatchString(marker) {
		t.Error("marker must match the delimiter pattern used by title detection")
	}
}
