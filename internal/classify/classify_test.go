package classify

import (
	"context"
	"testing"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

var catalog = []analysis.Area{
	{ID: 1, Name: "Finanzas"},
	{ID: 2, Name: "Operaciones"},
	{ID: 3, Name: "Marketing"},
}

func section() *analysis.Section {
	return &analysis.Section{
		ID:      "sec-1",
		Title:   "Financial Results",
		Content: "Revenue grew 12.5% in Q3.",
	}
}

func TestClassify(t *testing.T) {
	t.Run("valid assignment", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{
			"area_id": 1,
			"confidence": 0.92,
			"reasoning": ["revenue figures", "financial terminology"],
			"required_components": ["table", "kpi"]
		}`

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)

		if a.AreaID != 1 || a.AreaName != "Finanzas" {
			t.Errorf("expected area 1 Finanzas, got %d %s", a.AreaID, a.AreaName)
		}
		if a.Confidence != 0.92 {
			t.Errorf("expected confidence 0.92, got %f", a.Confidence)
		}
		if a.SectionID != "sec-1" || a.SectionTitle != "Financial Results" {
			t.Errorf("assignment must carry section identity: %+v", a)
		}
		if a.IsFallback {
			t.Error("valid assignment must not be flagged fallback")
		}
		if len(a.Reasoning) != 2 {
			t.Errorf("expected 2 reasons, got %v", a.Reasoning)
		}
	})

	t.Run("required components mapped to types", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"area_id": 2, "confidence": 0.5, "required_components": ["table", "kpi"]}`

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)
		if a.AreaID != 2 || a.AreaName != "Operaciones" {
			t.Errorf("expected area 2 Operaciones, got %d %s", a.AreaID, a.AreaName)
		}
		want := []analysis.ComponentType{analysis.ComponentTypeTable, analysis.ComponentTypeKPI}
		if len(a.RequiredComponents) != len(want) {
			t.Fatalf("expected %d component types, got %v", len(want), a.RequiredComponents)
		}
		for i, ct := range want {
			if a.RequiredComponents[i] != ct {
				t.Errorf("component %d: expected %s, got %s", i, ct, a.RequiredComponents[i])
			}
		}
	})

	t.Run("area outside catalog falls back to first entry", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"area_id": 99, "confidence": 0.9}`

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)

		if a.AreaID != 1 || a.AreaName != "Finanzas" {
			t.Errorf("expected first catalog entry, got %d %s", a.AreaID, a.AreaName)
		}
		if a.Confidence != 0.0 {
			t.Errorf("expected zero confidence, got %f", a.Confidence)
		}
		if !a.IsFallback {
			t.Error("default assignment must be flagged fallback")
		}
		if len(a.Reasoning) != 1 || a.Reasoning[0] != "fallback: invalid area returned" {
			t.Errorf("unexpected reasoning: %v", a.Reasoning)
		}
	})

	t.Run("oracle failure falls back to first entry", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ShouldFail = true

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)

		if a.AreaID != 1 || a.Confidence != 0.0 || !a.IsFallback {
			t.Errorf("expected fallback assignment, got %+v", a)
		}
		if len(a.Reasoning) != 1 || a.Reasoning[0] != "fallback: classification unavailable" {
			t.Errorf("unexpected reasoning: %v", a.Reasoning)
		}
	})

	t.Run("malformed response falls back", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = "this section is about money"

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)
		if a.AreaID != 1 || !a.IsFallback {
			t.Errorf("expected fallback assignment, got %+v", a)
		}
	})

	t.Run("out of range confidence rejected by schema", func(t *testing.T) {
		mock := providers.NewMockOracle()
		mock.Latency = 0
		mock.ResponseText = `{"area_id": 2, "confidence": 1.7}`

		c := New(mock, nil)
		a := c.Classify(context.Background(), section(), catalog)
		if !a.IsFallback {
			t.Errorf("expected fallback for invalid confidence, got %+v", a)
		}
	})
}
