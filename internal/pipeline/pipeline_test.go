package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/components"
	"github.com/informeapp/informe/internal/extract"
	"github.com/informeapp/informe/internal/providers"
	"github.com/informeapp/informe/internal/segment"
	"github.com/informeapp/informe/internal/synth"
)

var testCatalog = []analysis.Area{
	{ID: 1, Name: "Finanzas"},
	{ID: 2, Name: "Operaciones"},
}

// testDocument is a two-page report; the form feed splits the pages and the
// second page carries a pipe-delimited table.
const testDocument = "Acme Corp Q3 Report\n\nWelcome to the quarterly report.\f" +
	"Financial results follow.\n| Metric | Value |\n| Revenue | 1.2M |\n"

// scriptedOracle routes each pipeline stage to a canned response based on
// the request id prefix assigned by the stage packages.
func scriptedOracle() *providers.MockOracle {
	mock := providers.NewMockOracle()
	mock.Latency = 0
	mock.Respond = func(req *providers.TextRequest) (string, error) {
		switch {
		case strings.HasPrefix(req.RequestID, "segment-"):
			return `{"sections": [
				{"title": "Introduction", "content": "Welcome to the quarterly report.", "page_number": 1, "order": 1},
				{"title": "Financial Results", "content": "Financial results follow.\n| Metric | Value |\n| Revenue | 1.2M |", "page_number": 2, "order": 2}
			]}`, nil
		case strings.HasPrefix(req.RequestID, "kpi-"):
			if strings.Contains(req.Prompt, "Revenue") {
				return `{"kpis": [{"name": "Revenue", "value": "1.2M"}]}`, nil
			}
			return `{"kpis": []}`, nil
		case strings.HasPrefix(req.RequestID, "classify-"):
			if strings.Contains(req.Prompt, "Financial Results") {
				return `{"area_id": 1, "confidence": 0.9, "reasoning": ["revenue table"]}`, nil
			}
			return `{"area_id": 2, "confidence": 0.6}`, nil
		case strings.HasPrefix(req.RequestID, "synth-"):
			return `{
				"components": [{"type": "text", "title": "Overview", "required": true, "order": 1}],
				"instructions": "Summarize the section."
			}`, nil
		}
		return "", fmt.Errorf("unexpected request id %s", req.RequestID)
	}
	return mock
}

func analyzeRequest() *Request {
	return &Request{
		Document: []byte(testDocument),
		Format:   extract.FormatText,
		Catalog:  testCatalog,
		Config:   analysis.DefaultRunConfig(),
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("full run", func(t *testing.T) {
		p := New(scriptedOracle(), nil)
		result, err := p.Analyze(context.Background(), analyzeRequest())
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if result.ID == "" {
			t.Error("result must carry a run id")
		}
		if result.DocumentTitle != "Acme Corp Q3 Report" {
			t.Errorf("unexpected title: %q", result.DocumentTitle)
		}
		if len(result.Sections) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(result.Sections))
		}

		intro, fin := result.Sections[0], result.Sections[1]
		if intro.Title != "Introduction" || fin.Title != "Financial Results" {
			t.Errorf("unexpected section titles: %q, %q", intro.Title, fin.Title)
		}

		// The second section has the pipe table plus the scripted KPI.
		var tables, kpis int
		for _, c := range fin.Components {
			switch c.Type {
			case analysis.ComponentTypeTable:
				tables++
				if c.Caption != components.TableCaption {
					t.Errorf("unexpected table caption: %q", c.Caption)
				}
			case analysis.ComponentTypeKPI:
				kpis++
			}
		}
		if tables != 1 || kpis != 1 {
			t.Errorf("expected 1 table and 1 kpi, got %d tables %d kpis", tables, kpis)
		}

		if len(result.Assignments) != 2 {
			t.Fatalf("expected 2 assignments, got %d", len(result.Assignments))
		}
		if a := result.Assignments[1]; a.AreaID != 1 || a.AreaName != "Finanzas" || a.Confidence != 0.9 {
			t.Errorf("unexpected assignment for section 2: %+v", a)
		}
		if fin.SuggestedArea == nil || fin.SuggestedArea.ID != 1 {
			t.Errorf("section must carry its suggested area: %+v", fin.SuggestedArea)
		}

		if len(result.Templates) != 2 {
			t.Fatalf("expected 2 templates, got %d", len(result.Templates))
		}
		if result.Templates[1].AreaName != "Finanzas" {
			t.Errorf("unexpected template area: %q", result.Templates[1].AreaName)
		}

		if result.Metadata["pages"] != "2" || result.Metadata["format"] != "txt" {
			t.Errorf("unexpected metadata: %v", result.Metadata)
		}
	})

	t.Run("oracle down degrades everywhere", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ShouldFail = true

		p := New(mock, nil)
		result, err := p.Analyze(context.Background(), analyzeRequest())
		if err != nil {
			t.Fatalf("Analyze must not fail when the oracle is down: %v", err)
		}

		if len(result.Sections) != 1 {
			t.Fatalf("expected single fallback section, got %d", len(result.Sections))
		}
		sec := result.Sections[0]
		if sec.Title != segment.FallbackTitle || !sec.IsFallback {
			t.Errorf("expected flagged fallback section, got %+v", sec)
		}
		// Deterministic table detection still runs on the fallback content.
		if len(sec.Components) != 1 || sec.Components[0].Type != analysis.ComponentTypeTable {
			t.Errorf("expected the pipe table to survive, got %+v", sec.Components)
		}

		if len(result.Assignments) != 1 {
			t.Fatalf("expected 1 assignment, got %d", len(result.Assignments))
		}
		a := result.Assignments[0]
		if a.AreaID != 1 || a.Confidence != 0.0 || !a.IsFallback {
			t.Errorf("expected default assignment, got %+v", a)
		}

		// Synthesis needs the oracle, so the template list is empty.
		if len(result.Templates) != 0 {
			t.Errorf("expected no templates, got %d", len(result.Templates))
		}
	})

	t.Run("synthesis failure omits only that section", func(t *testing.T) {
		mock := scriptedOracle()
		inner := mock.Respond
		mock.Respond = func(req *providers.TextRequest) (string, error) {
			if strings.HasPrefix(req.RequestID, "synth-") && strings.Contains(req.Prompt, "Introduction") {
				return "", errors.New("synthesis refused")
			}
			return inner(req)
		}

		p := New(mock, nil)
		result, err := p.Analyze(context.Background(), analyzeRequest())
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if len(result.Templates) != 1 {
			t.Fatalf("expected 1 template, got %d", len(result.Templates))
		}
		if result.Templates[0].SectionTitle != "Financial Results" {
			t.Errorf("wrong section omitted: %q", result.Templates[0].SectionTitle)
		}
		if len(result.Assignments) != 2 {
			t.Errorf("assignments must be unaffected, got %d", len(result.Assignments))
		}
	})

	t.Run("fallback assignment yields placeholder template", func(t *testing.T) {
		mock := scriptedOracle()
		inner := mock.Respond
		mock.Respond = func(req *providers.TextRequest) (string, error) {
			if strings.HasPrefix(req.RequestID, "classify-") {
				return "", errors.New("classifier down")
			}
			return inner(req)
		}

		p := New(mock, nil)
		result, err := p.Analyze(context.Background(), analyzeRequest())
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		for _, tmpl := range result.Templates {
			if tmpl.AreaName != synth.PlaceholderAreaName {
				t.Errorf("expected placeholder area, got %q", tmpl.AreaName)
			}
		}
	})

	t.Run("stages toggled off are skipped", func(t *testing.T) {
		req := analyzeRequest()
		req.Config.IdentifyComponents = false
		req.Config.SuggestAreaAssignments = false

		mock := scriptedOracle()
		p := New(mock, nil)
		result, err := p.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if len(result.Sections) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(result.Sections))
		}
		for _, sec := range result.Sections {
			if len(sec.Components) != 0 {
				t.Errorf("components must be skipped, got %d", len(sec.Components))
			}
			if sec.SuggestedArea != nil {
				t.Error("classification must be skipped")
			}
		}
		if len(result.Assignments) != 0 || len(result.Templates) != 0 {
			t.Errorf("assignments and templates must be empty: %d, %d",
				len(result.Assignments), len(result.Templates))
		}
		// Only the segmentation call should have reached the oracle.
		if mock.RequestCount() != 1 {
			t.Errorf("expected 1 oracle call, got %d", mock.RequestCount())
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		p := New(scriptedOracle(), nil)

		if _, err := p.Analyze(context.Background(), nil); !errors.Is(err, analysis.ErrNoDocument) {
			t.Errorf("nil request: expected ErrNoDocument, got %v", err)
		}

		req := analyzeRequest()
		req.Document = nil
		if _, err := p.Analyze(context.Background(), req); !errors.Is(err, analysis.ErrNoDocument) {
			t.Errorf("empty document: expected ErrNoDocument, got %v", err)
		}

		req = analyzeRequest()
		req.Config.IdentifySections = false
		if _, err := p.Analyze(context.Background(), req); !errors.Is(err, analysis.ErrSectionsRequired) {
			t.Errorf("expected ErrSectionsRequired, got %v", err)
		}

		req = analyzeRequest()
		req.Catalog = nil
		if _, err := p.Analyze(context.Background(), req); !errors.Is(err, analysis.ErrEmptyAreaCatalog) {
			t.Errorf("expected ErrEmptyAreaCatalog, got %v", err)
		}
	})

	t.Run("unreadable document is fatal", func(t *testing.T) {
		req := analyzeRequest()
		req.Document = []byte("not a zip archive")
		req.Format = extract.FormatXLSX

		p := New(scriptedOracle(), nil)
		_, err := p.Analyze(context.Background(), req)
		var readErr *extract.DocumentReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("expected DocumentReadError, got %v", err)
		}
	})
}

// TestAnalyzeConcurrencyEquivalence runs a many-section document both
// sequentially and with a wide fan-out under randomized per-call latency and
// expects byte-identical section, assignment, and template ordering.
func TestAnalyzeConcurrencyEquivalence(t *testing.T) {
	const sectionCount = 50

	buildOracle := func(jitter bool) *providers.MockOracle {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.Respond = func(req *providers.TextRequest) (string, error) {
			if jitter {
				time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
			}
			switch {
			case strings.HasPrefix(req.RequestID, "segment-"):
				sections := make([]map[string]any, 0, sectionCount)
				for i := 1; i <= sectionCount; i++ {
					sections = append(sections, map[string]any{
						"title":       fmt.Sprintf("Section %03d", i),
						"content":     fmt.Sprintf("content %d", i),
						"page_number": 1,
						"order":       i,
					})
				}
				out, _ := json.Marshal(map[string]any{"sections": sections})
				return string(out), nil
			case strings.HasPrefix(req.RequestID, "kpi-"):
				return `{"kpis": []}`, nil
			case strings.HasPrefix(req.RequestID, "classify-"):
				// Pick the area from the section content so the verdict is
				// a pure function of the section.
				if strings.Contains(req.Prompt, "content 1") {
					return `{"area_id": 1, "confidence": 0.8}`, nil
				}
				return `{"area_id": 2, "confidence": 0.7}`, nil
			case strings.HasPrefix(req.RequestID, "synth-"):
				return `{
					"components": [{"type": "text", "title": "Body", "required": true, "order": 1}],
					"instructions": "Write it."
				}`, nil
			}
			return "", fmt.Errorf("unexpected request id %s", req.RequestID)
		}
		return mock
	}

	run := func(concurrency int, jitter bool) *analysis.Result {
		p := New(buildOracle(jitter), nil, WithConcurrency(concurrency))
		result, err := p.Analyze(context.Background(), analyzeRequest())
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		return result
	}

	sequential := run(1, false)
	concurrent := run(8, true)

	if len(sequential.Sections) != sectionCount || len(concurrent.Sections) != sectionCount {
		t.Fatalf("expected %d sections, got %d and %d",
			sectionCount, len(sequential.Sections), len(concurrent.Sections))
	}

	for i := range sequential.Sections {
		if sequential.Sections[i].Title != concurrent.Sections[i].Title {
			t.Fatalf("section order diverged at %d: %q vs %q",
				i, sequential.Sections[i].Title, concurrent.Sections[i].Title)
		}
		sa, ca := sequential.Assignments[i], concurrent.Assignments[i]
		if sa.SectionTitle != ca.SectionTitle || sa.AreaID != ca.AreaID || sa.Confidence != ca.Confidence {
			t.Fatalf("assignment diverged at %d: %+v vs %+v", i, sa, ca)
		}
		if sequential.Templates[i].SectionTitle != concurrent.Templates[i].SectionTitle {
			t.Fatalf("template order diverged at %d", i)
		}
	}
}
