package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/api"
	"github.com/informeapp/informe/internal/svcctx"
)

// AreasResponse wraps the area catalog.
type AreasResponse struct {
	Areas []analysis.Area `json:"areas"`
}

// ListAreasEndpoint handles GET /api/areas.
type ListAreasEndpoint struct{}

func (e *ListAreasEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/areas", e.handler
}

func (e *ListAreasEndpoint) RequiresInit() bool { return true }

func (e *ListAreasEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	db := svcctx.StoreFrom(r.Context())
	if db == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	areas, err := db.ListAreas(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AreasResponse{Areas: areas})
}

func (e *ListAreasEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "List the area catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp AreasResponse
			if err := client.Get(cmd.Context(), "/api/areas", &resp); err != nil {
				return err
			}
			for _, a := range resp.Areas {
				fmt.Printf("%d\t%s\n", a.ID, a.Name)
			}
			return nil
		},
	}
}

// ReplaceAreasEndpoint handles PUT /api/areas. The new catalog replaces
// the old one atomically and applies to subsequent analyses only.
type ReplaceAreasEndpoint struct{}

func (e *ReplaceAreasEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/areas", e.handler
}

func (e *ReplaceAreasEndpoint) RequiresInit() bool { return true }

func (e *ReplaceAreasEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req AreasResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Areas) == 0 {
		writeError(w, http.StatusBadRequest, "area catalog must not be empty")
		return
	}
	for _, a := range req.Areas {
		if a.Name == "" {
			writeError(w, http.StatusBadRequest, "every area needs a name")
			return
		}
	}

	db := svcctx.StoreFrom(r.Context())
	if db == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	if err := db.ReplaceAreas(r.Context(), req.Areas); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AreasResponse{Areas: req.Areas})
}

func (e *ReplaceAreasEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "areas-set <file.json>",
		Short: "Replace the area catalog from a JSON file",
		Long: `Replace the area catalog with the contents of a JSON file.

The file must contain {"areas": [{"id": 1, "name": "..."}, ...]}.
The new catalog applies to analyses started after the replacement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var req AreasResponse
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("invalid catalog file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp AreasResponse
			if err := client.Put(cmd.Context(), "/api/areas", req, &resp); err != nil {
				return err
			}
			fmt.Printf("Catalog replaced (%d areas)\n", len(resp.Areas))
			return nil
		},
	}
}
