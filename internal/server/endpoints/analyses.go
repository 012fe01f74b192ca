package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/api"
	"github.com/informeapp/informe/internal/store"
	"github.com/informeapp/informe/internal/svcctx"
)

// ListAnalysesResponse wraps stored analysis summaries.
type ListAnalysesResponse struct {
	Analyses []store.AnalysisSummary `json:"analyses"`
}

// ListAnalysesEndpoint handles GET /api/analyses.
type ListAnalysesEndpoint struct{}

func (e *ListAnalysesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/analyses", e.handler
}

func (e *ListAnalysesEndpoint) RequiresInit() bool { return true }

func (e *ListAnalysesEndpoint) Group() string { return "analyses" }

func (e *ListAnalysesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	db := svcctx.StoreFrom(r.Context())
	if db == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	summaries, err := db.ListAnalyses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ListAnalysesResponse{Analyses: summaries})
}

func (e *ListAnalysesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListAnalysesResponse
			if err := client.Get(cmd.Context(), "/api/analyses", &resp); err != nil {
				return err
			}
			for _, a := range resp.Analyses {
				fmt.Printf("%s\t%s\t%s\t%s\n", a.ID, a.DocumentTitle, a.SourceName, a.AnalyzedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// GetAnalysisEndpoint handles GET /api/analyses/{id}.
type GetAnalysisEndpoint struct{}

func (e *GetAnalysisEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/analyses/{id}", e.handler
}

func (e *GetAnalysisEndpoint) RequiresInit() bool { return true }

func (e *GetAnalysisEndpoint) Group() string { return "analyses" }

func (e *GetAnalysisEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	db := svcctx.StoreFrom(r.Context())
	if db == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	result, err := db.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *GetAnalysisEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a stored analysis by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var result analysis.Result
			if err := client.Get(cmd.Context(), "/api/analyses/"+args[0], &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
}

// DeleteAnalysisEndpoint handles DELETE /api/analyses/{id}.
type DeleteAnalysisEndpoint struct{}

func (e *DeleteAnalysisEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/analyses/{id}", e.handler
}

func (e *DeleteAnalysisEndpoint) RequiresInit() bool { return true }

func (e *DeleteAnalysisEndpoint) Group() string { return "analyses" }

func (e *DeleteAnalysisEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	db := svcctx.StoreFrom(r.Context())
	if db == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	if err := db.DeleteAnalysis(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (e *DeleteAnalysisEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/analyses/"+args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
