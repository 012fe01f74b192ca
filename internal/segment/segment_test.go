package segment

import (
	"context"
	"strings"
	"testing"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

func extracted(pages ...string) *analysis.ExtractedText {
	out := &analysis.ExtractedText{}
	for i, p := range pages {
		out.Pages = append(out.Pages, analysis.Page{Number: i + 1, Text: p})
	}
	return out
}

func TestSegment(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"sections": [
			{"title": "Introduction", "content": "Intro text", "page_number": 1, "order": 1, "keywords": ["intro"]},
			{"title": "Financial Results", "subtitle": "Q3", "content": "Revenue table", "page_number": 2, "order": 2}
		]}`

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("page one", "page two"))

		if len(sections) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(sections))
		}
		if sections[0].Title != "Introduction" || sections[1].Title != "Financial Results" {
			t.Errorf("unexpected titles: %q, %q", sections[0].Title, sections[1].Title)
		}
		if sections[0].Order != 1 || sections[1].Order != 2 {
			t.Errorf("unexpected orders: %d, %d", sections[0].Order, sections[1].Order)
		}
		if sections[1].Subtitle != "Q3" {
			t.Errorf("expected subtitle Q3, got %q", sections[1].Subtitle)
		}
		if sections[0].ID == "" || sections[0].ID == sections[1].ID {
			t.Error("sections must get distinct ids")
		}
		if sections[0].IsFallback || sections[1].IsFallback {
			t.Error("valid segmentation must not flag fallback")
		}
	})

	t.Run("duplicate orders re-derived from position", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"sections": [
			{"title": "First Section", "content": "a", "page_number": 1, "order": 3},
			{"title": "Second Section", "content": "b", "page_number": 1, "order": 3},
			{"title": "Third Section", "content": "c", "page_number": 2, "order": 1}
		]}`

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("text"))

		for i, sec := range sections {
			if sec.Order != i+1 {
				t.Errorf("section %d: expected order %d, got %d", i, i+1, sec.Order)
			}
		}
	})

	t.Run("missing orders re-derived", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"sections": [
			{"title": "Alpha Section", "content": "a", "page_number": 1},
			{"title": "Beta Section", "content": "b", "page_number": 1}
		]}`

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("text"))
		if sections[0].Order != 1 || sections[1].Order != 2 {
			t.Errorf("expected orders 1,2 got %d,%d", sections[0].Order, sections[1].Order)
		}
	})

	t.Run("oracle failure degrades to fallback", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ShouldFail = true

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("some document text"))

		if len(sections) != 1 {
			t.Fatalf("expected 1 fallback section, got %d", len(sections))
		}
		sec := sections[0]
		if sec.Title != FallbackTitle {
			t.Errorf("expected title %q, got %q", FallbackTitle, sec.Title)
		}
		if sec.PageNumber != 1 || sec.Order != 1 {
			t.Errorf("fallback must sit on page 1 order 1, got page %d order %d", sec.PageNumber, sec.Order)
		}
		if !sec.IsFallback {
			t.Error("fallback section must be flagged")
		}
		if sec.Content != "some document text" {
			t.Errorf("unexpected content: %q", sec.Content)
		}
	})

	t.Run("malformed response degrades to fallback", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = "I cannot segment this document."

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("body"))
		if len(sections) != 1 || sections[0].Title != FallbackTitle {
			t.Fatalf("expected single fallback section, got %+v", sections)
		}
	})

	t.Run("schema violation degrades to fallback", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		// page_number has the wrong type
		mock.ResponseText = `{"sections": [{"title": "Valid Title", "content": "x", "page_number": "one"}]}`

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("body"))
		if len(sections) != 1 || sections[0].Title != FallbackTitle {
			t.Fatalf("expected single fallback section, got %+v", sections)
		}
	})

	t.Run("empty section list degrades to fallback", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"sections": []}`

		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted("body"))
		if len(sections) != 1 || sections[0].Title != FallbackTitle {
			t.Fatalf("expected single fallback section, got %+v", sections)
		}
	})

	t.Run("fallback content capped at 1000 characters", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ShouldFail = true

		long := strings.Repeat("abcde ", 400) // 2400 chars
		s := New(mock, nil)
		sections := s.Segment(context.Background(), extracted(long))
		if got := len([]rune(sections[0].Content)); got != 1000 {
			t.Errorf("expected 1000 characters, got %d", got)
		}
	})
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(extracted("first page", "second page"))
	if !strings.Contains(prompt, "--- PAGE 1 ---") || !strings.Contains(prompt, "--- PAGE 2 ---") {
		t.Errorf("prompt missing page markers:\n%s", prompt)
	}
	if !strings.Contains(prompt, "first page") || !strings.Contains(prompt, "second page") {
		t.Errorf("prompt missing page content:\n%s", prompt)
	}
}
