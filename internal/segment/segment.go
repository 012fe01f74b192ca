// Package segment splits extracted document text into titled, ordered
// sections using the text oracle, with a deterministic single-section
// fallback when the oracle response is unusable.
package segment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/providers"
)

// FallbackTitle is the title of the single section produced when
// segmentation degrades.
const FallbackTitle = "Main Content"

// fallbackContentLimit bounds the fallback section's content.
const fallbackContentLimit = 1000

// Segmenter turns extracted text into ordered sections.
type Segmenter struct {
	oracle providers.Oracle
	logger *slog.Logger
}

// New creates a Segmenter.
func New(oracle providers.Oracle, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{oracle: oracle, logger: logger}
}

// Segment asks the oracle to split the document into sections. Any oracle
// failure, parse failure, or schema violation degrades to the single
// fallback section; segmentation never fails the run.
func (s *Segmenter) Segment(ctx context.Context, text *analysis.ExtractedText) []analysis.Section {
	req := &providers.TextRequest{
		System:    SystemPrompt,
		Prompt:    BuildUserPrompt(text),
		RequestID: "segment-" + uuid.New().String(),
	}

	result, err := s.oracle.GenerateText(ctx, req)
	if err != nil {
		s.logger.Warn("segmentation oracle call failed, using fallback section",
			"request_id", req.RequestID, "error", err)
		return []analysis.Section{fallbackSection(text)}
	}

	var resp response
	if err := providers.ParseAndValidate(result.Content, ResponseSchema, &resp); err != nil {
		s.logger.Warn("segmentation response rejected, using fallback section",
			"request_id", req.RequestID, "error", err)
		return []analysis.Section{fallbackSection(text)}
	}
	if len(resp.Sections) == 0 {
		s.logger.Warn("segmentation response empty, using fallback section",
			"request_id", req.RequestID)
		return []analysis.Section{fallbackSection(text)}
	}

	useResponseOrder := ordersStrictlyIncreasing(resp.Sections)
	sections := make([]analysis.Section, 0, len(resp.Sections))
	for i, rs := range resp.Sections {
		order := i + 1
		if useResponseOrder {
			order = rs.Order
		}
		sec := analysis.Section{
			ID:         uuid.New().String(),
			Title:      rs.Title,
			PageNumber: rs.PageNumber, // accepted as-is, even out of range
			Order:      order,
			Content:    rs.Content,
			Keywords:   rs.Keywords,
			Components: []analysis.Component{},
		}
		if rs.Subtitle != nil {
			sec.Subtitle = *rs.Subtitle
		}
		sections = append(sections, sec)
	}

	s.logger.Info("document segmented", "sections", len(sections),
		"response_order", useResponseOrder)
	return sections
}

// ordersStrictlyIncreasing reports whether the response's own order values
// are usable: present and strictly increasing.
func ordersStrictlyIncreasing(sections []responseSection) bool {
	prev := 0
	for _, s := range sections {
		if s.Order <= prev {
			return false
		}
		prev = s.Order
	}
	return true
}

// fallbackSection builds the single degraded section: first 1000 characters
// of the document on page 1.
func fallbackSection(text *analysis.ExtractedText) analysis.Section {
	content := text.FullText()
	if runes := []rune(content); len(runes) > fallbackContentLimit {
		content = string(runes[:fallbackContentLimit])
	}
	return analysis.Section{
		ID:         uuid.New().String(),
		Title:      FallbackTitle,
		PageNumber: 1,
		Order:      1,
		Content:    content,
		Components: []analysis.Component{},
		IsFallback: true,
	}
}
