package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/api"
	"github.com/informeapp/informe/internal/extract"
	"github.com/informeapp/informe/internal/pipeline"
	"github.com/informeapp/informe/internal/providers"
	"github.com/informeapp/informe/internal/svcctx"
)

// AnalyzeEndpoint handles POST /api/documents/analyze with a multipart
// file upload. The document is analyzed synchronously and the full
// result is returned and persisted.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 100MB max memory
	const maxMemory = 100 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	format, err := extract.DetectFormat(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	cfg := analysis.DefaultRunConfig()
	if v := r.FormValue("identify_sections"); v != "" {
		cfg.IdentifySections = v == "true"
	}
	if v := r.FormValue("identify_components"); v != "" {
		cfg.IdentifyComponents = v == "true"
	}
	if v := r.FormValue("suggest_area_assignments"); v != "" {
		cfg.SuggestAreaAssignments = v == "true"
	}

	db := svcctx.StoreFrom(r.Context())
	registry := svcctx.RegistryFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())
	if db == nil || registry == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	oracleName := r.FormValue("oracle")
	var oracle providers.Oracle
	if oracleName != "" {
		oracle, err = registry.Get(oracleName)
	} else {
		oracle, err = registry.Default()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog, err := db.ListAreas(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load area catalog: %v", err))
		return
	}

	var opts []pipeline.Option
	if cm := svcctx.ConfigMgrFrom(r.Context()); cm != nil {
		if n := cm.Get().Defaults.Concurrency; n > 0 {
			opts = append(opts, pipeline.WithConcurrency(n))
		}
	}

	p := pipeline.New(oracle, logger, opts...)
	result, err := p.Analyze(r.Context(), &pipeline.Request{
		Document: data,
		Format:   format,
		Catalog:  catalog,
		Config:   cfg,
		Metadata: map[string]string{"filename": header.Filename},
	})
	if err != nil {
		var readErr *extract.DocumentReadError
		switch {
		case errors.As(err, &readErr):
			writeError(w, http.StatusUnprocessableEntity, readErr.Error())
		case errors.Is(err, analysis.ErrNoDocument),
			errors.Is(err, analysis.ErrSectionsRequired),
			errors.Is(err, analysis.ErrEmptyAreaCatalog):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if err := db.SaveAnalysis(r.Context(), result, header.Filename); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to persist analysis: %v", err))
		return
	}

	// Keep a copy of the source document alongside the analysis
	if homeDir := svcctx.HomeFrom(r.Context()); homeDir != nil {
		dest := filepath.Join(homeDir.UploadsPath(), result.ID+"_"+filepath.Base(header.Filename))
		if err := os.WriteFile(dest, data, 0o644); err != nil && logger != nil {
			logger.Warn("failed to archive uploaded document", "path", dest, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		identifySections       bool
		identifyComponents     bool
		suggestAreaAssignments bool
		oracleName             string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a document on the server",
		Long: `Upload a document (PDF, XLSX, TXT, or MD) to the server for analysis.

The server extracts the document text, segments it into sections,
identifies components, classifies sections against the area catalog,
and synthesizes report templates. The full result is returned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			fields := map[string]string{
				"identify_sections":        strconv.FormatBool(identifySections),
				"identify_components":      strconv.FormatBool(identifyComponents),
				"suggest_area_assignments": strconv.FormatBool(suggestAreaAssignments),
			}
			if oracleName != "" {
				fields["oracle"] = oracleName
			}

			var result analysis.Result
			if err := client.PostFile(cmd.Context(), "/api/documents/analyze", args[0], fields, &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}

	cmd.Flags().BoolVar(&identifySections, "identify-sections", true, "Segment the document into sections")
	cmd.Flags().BoolVar(&identifyComponents, "identify-components", true, "Identify tables, KPIs, and other components")
	cmd.Flags().BoolVar(&suggestAreaAssignments, "suggest-areas", true, "Classify sections against the area catalog")
	cmd.Flags().StringVar(&oracleName, "oracle", "", "Oracle to use (default: configured default)")

	return cmd
}
