// Package pipeline orchestrates the document analysis run: extraction,
// segmentation, component identification, area classification, and template
// synthesis. Extraction failure is fatal; every later failure is per-item
// recoverable, so a run that extracts successfully always completes with a
// structurally complete result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/classify"
	"github.com/informeapp/informe/internal/components"
	"github.com/informeapp/informe/internal/extract"
	"github.com/informeapp/informe/internal/providers"
	"github.com/informeapp/informe/internal/segment"
	"github.com/informeapp/informe/internal/synth"
)

// DefaultConcurrency bounds per-section fan-out against the oracle.
const DefaultConcurrency = 4

// Pipeline runs document analyses. It is safe for concurrent use; all
// run-scoped state lives in the Analyze call.
type Pipeline struct {
	segmenter   *segment.Segmenter
	identifier  *components.Identifier
	classifier  *classify.Classifier
	synthesizer *synth.Synthesizer
	logger      *slog.Logger
	concurrency int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithConcurrency sets the per-section fan-out limit. Values below 1 force
// sequential execution.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// New creates a Pipeline backed by the given oracle.
func New(oracle providers.Oracle, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		segmenter:   segment.New(oracle, logger),
		identifier:  components.New(oracle, logger),
		classifier:  classify.New(oracle, logger),
		synthesizer: synth.New(oracle, logger),
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes one analysis run.
type Request struct {
	// Document is the raw source document.
	Document []byte

	// Format identifies how to extract the document.
	Format extract.Format

	// Catalog is the fixed area catalog. Never mutated.
	Catalog []analysis.Area

	// Config toggles pipeline stages.
	Config analysis.RunConfig

	// Metadata is carried into the result untouched.
	Metadata map[string]string
}

// Analyze executes the full pipeline for one document. The only fatal
// failure after validation is an unreadable document, surfaced as a
// *extract.DocumentReadError.
func (p *Pipeline) Analyze(ctx context.Context, req *Request) (*analysis.Result, error) {
	if req == nil || len(req.Document) == 0 {
		return nil, analysis.ErrNoDocument
	}
	if err := req.Config.Validate(req.Catalog); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)
	start := time.Now()

	// Extracting: the only fatal stage.
	text, err := extract.Extract(req.Document, req.Format)
	if err != nil {
		logger.Error("extraction failed", "format", req.Format, "error", err)
		return nil, err
	}
	title := extract.DocumentTitle(text)
	logger.Info("document extracted", "pages", text.PageCount(), "title", title)

	// Segmenting: degrades to a single fallback section, never fails.
	sections := p.segmenter.Segment(ctx, text)

	// IdentifyingComponents: per-section, skippable.
	if req.Config.IdentifyComponents {
		p.forEachSection(ctx, len(sections), func(ctx context.Context, i int) {
			sec := &sections[i]
			sec.Components = p.identifier.Identify(ctx, sec.ID, sec.Content, sec.PageNumber)
		})
	}

	// ClassifyingAreas: per-section, skippable. Every section gets exactly
	// one assignment, fallback or not.
	var assignments []analysis.AreaAssignment
	if req.Config.SuggestAreaAssignments {
		assignments = make([]analysis.AreaAssignment, len(sections))
		p.forEachSection(ctx, len(sections), func(ctx context.Context, i int) {
			assignments[i] = p.classifier.Classify(ctx, &sections[i], req.Catalog)
		})
		for i := range sections {
			a := &assignments[i]
			sections[i].SuggestedArea = &analysis.Area{ID: a.AreaID, Name: a.AreaName}
			sections[i].Confidence = a.Confidence
			if a.IsFallback {
				sections[i].IsFallback = true
			}
		}
	}

	// SynthesizingTemplates: requires assignments; failed sections are
	// omitted from the template list.
	var templates []analysis.SectionTemplate
	if req.Config.SuggestAreaAssignments {
		slots := make([]*analysis.SectionTemplate, len(sections))
		p.forEachSection(ctx, len(sections), func(ctx context.Context, i int) {
			tmpl, err := p.synthesizer.Synthesize(ctx, &sections[i], &assignments[i])
			if err != nil {
				logger.Warn("template synthesis failed, section omitted",
					"section_id", sections[i].ID, "section_title", sections[i].Title, "error", err)
				return
			}
			slots[i] = tmpl
		})
		templates = make([]analysis.SectionTemplate, 0, len(slots))
		for _, tmpl := range slots {
			if tmpl != nil {
				templates = append(templates, *tmpl)
			}
		}
	}

	metadata := map[string]string{
		"pages":  fmt.Sprintf("%d", text.PageCount()),
		"format": string(req.Format),
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	result := &analysis.Result{
		ID:            runID,
		DocumentTitle: title,
		Sections:      sections,
		Assignments:   assignments,
		Templates:     templates,
		Metadata:      metadata,
		AnalyzedAt:    time.Now().UTC(),
	}

	logger.Info("analysis complete",
		"sections", len(result.Sections),
		"assignments", len(result.Assignments),
		"templates", len(result.Templates),
		"elapsed", time.Since(start))
	return result, nil
}

// forEachSection runs fn for each section index, fanning out up to the
// configured concurrency limit. Results must be written to index-addressed
// slots so ordering is identical to sequential execution.
func (p *Pipeline) forEachSection(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	if p.concurrency <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			fn(ctx, i)
		}
		return
	}

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx, i)
		}(i)
	}
	wg.Wait()
}
