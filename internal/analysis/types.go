// Package analysis defines the data model shared by the document analysis
// pipeline: extracted text, sections, components, area assignments, and the
// generated section templates that make up an analysis result.
package analysis

import (
	"errors"
	"time"
)

// ComponentType identifies the kind of structural element found in a section.
type ComponentType string

const (
	ComponentTypeText  ComponentType = "text"
	ComponentTypeTable ComponentType = "table"
	ComponentTypeChart ComponentType = "chart"
	ComponentTypeImage ComponentType = "image"
	ComponentTypeKPI   ComponentType = "kpi"
)

// ValidComponentType reports whether s names a known component type.
func ValidComponentType(s string) bool {
	switch ComponentType(s) {
	case ComponentTypeText, ComponentTypeTable, ComponentTypeChart,
		ComponentTypeImage, ComponentTypeKPI:
		return true
	}
	return false
}

// Page is a single page of extracted text. Empty pages keep their slot so
// page numbering always matches the source document.
type Page struct {
	Number int    `json:"number"` // 1-indexed
	Text   string `json:"text"`
}

// ExtractedText is the ordered per-page text pulled from a source document.
// It is immutable once produced.
type ExtractedText struct {
	Pages []Page `json:"pages"`
}

// PageCount returns the number of page entries.
func (e *ExtractedText) PageCount() int {
	return len(e.Pages)
}

// FullText concatenates all pages in order, separated by newlines.
func (e *ExtractedText) FullText() string {
	var out string
	for i, p := range e.Pages {
		if i > 0 {
			out += "\n"
		}
		out += p.Text
	}
	return out
}

// Position locates a component on a page. Zero geometry means unknown.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

// Component is a structural element within a section. It is owned by exactly
// one section.
type Component struct {
	ID          string        `json:"id"`
	Type        ComponentType `json:"type"`
	Content     string        `json:"content"`
	Caption     string        `json:"caption,omitempty"`
	Position    Position      `json:"position"`
	DataSources []string      `json:"data_sources,omitempty"`
}

// Section is a titled, page-anchored content unit extracted from a document.
// Order values are unique and strictly increasing in reading order.
type Section struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle,omitempty"`
	PageNumber    int         `json:"page_number"`
	Order         int         `json:"order"` // 1-based
	Content       string      `json:"content"`
	Keywords      []string    `json:"keywords,omitempty"`
	Components    []Component `json:"components"`
	SuggestedArea *Area       `json:"suggested_area,omitempty"`
	Confidence    float64     `json:"confidence"` // 0.0-1.0
	IsFallback    bool        `json:"is_fallback,omitempty"`
}

// Area is an organizational unit that can own a report section. The catalog
// of areas is supplied externally and never mutated by the pipeline.
type Area struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AreaAssignment is the classifier's verdict for one section. Confidence is
// comparable across sections; IsFallback marks the default assignment used
// when the oracle failed or returned an area outside the catalog.
type AreaAssignment struct {
	SectionID          string          `json:"section_id"`
	SectionTitle       string          `json:"section_title"`
	AreaID             int             `json:"area_id"`
	AreaName           string          `json:"area_name"`
	Confidence         float64         `json:"confidence"`
	Reasoning          []string        `json:"reasoning,omitempty"`
	RequiredComponents []ComponentType `json:"required_components,omitempty"`
	IsFallback         bool            `json:"is_fallback,omitempty"`
}

// ComponentTemplate is a placeholder for a component a report author will
// fill in when completing a generated section.
type ComponentTemplate struct {
	ID           string        `json:"id"`
	Type         ComponentType `json:"type"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Required     bool          `json:"required"`
	Order        int           `json:"order"`
	DefaultValue string        `json:"default_value,omitempty"`
	DataFields   []string      `json:"data_fields,omitempty"`
}

// SectionTemplate is a reusable section template derived from exactly one
// section and its area assignment.
type SectionTemplate struct {
	SectionID           string              `json:"section_id"`
	SectionTitle        string              `json:"section_title"`
	AreaID              int                 `json:"area_id"`
	AreaName            string              `json:"area_name"`
	Components          []ComponentTemplate `json:"components"`
	Instructions        string              `json:"instructions,omitempty"`
	RequiredDataSources []string            `json:"required_data_sources,omitempty"`
}

// Result is the aggregate of one pipeline run. It is immutable after the run
// completes and is never partially persisted.
type Result struct {
	ID            string            `json:"id"`
	DocumentTitle string            `json:"document_title"`
	Sections      []Section         `json:"sections"`
	Assignments   []AreaAssignment  `json:"assignments"`
	Templates     []SectionTemplate `json:"templates"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	AnalyzedAt    time.Time         `json:"analyzed_at"`
}

// RunConfig toggles pipeline stages for a single run. IdentifySections must
// be true; template synthesis runs only when SuggestAreaAssignments does.
type RunConfig struct {
	IdentifySections       bool `json:"identify_sections"`
	IdentifyComponents     bool `json:"identify_components"`
	SuggestAreaAssignments bool `json:"suggest_area_assignments"`
}

// DefaultRunConfig returns a run configuration with every stage enabled.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		IdentifySections:       true,
		IdentifyComponents:     true,
		SuggestAreaAssignments: true,
	}
}

// Validation errors returned before any pipeline stage executes.
var (
	ErrNoDocument       = errors.New("no document provided")
	ErrSectionsRequired = errors.New("identify_sections must be enabled")
	ErrEmptyAreaCatalog = errors.New("area catalog is empty")
)

// Validate checks a run configuration against the supplied area catalog.
// Classification and synthesis need at least one catalog entry to fall back to.
func (c RunConfig) Validate(catalog []Area) error {
	if !c.IdentifySections {
		return ErrSectionsRequired
	}
	if c.SuggestAreaAssignments && len(catalog) == 0 {
		return ErrEmptyAreaCatalog
	}
	return nil
}
