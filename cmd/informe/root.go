package main

import (
	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/api"
	"github.com/informeapp/informe/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "informe",
	Short: "Document analysis and report template generation",
	Long: `Informe analyzes business documents (PDF, XLSX, TXT, MD) and generates
report templates from them.

The pipeline includes:
  - Text extraction with page structure preserved
  - LLM-assisted section segmentation
  - Component identification (tables, KPIs)
  - Section classification against a business area catalog
  - Report template synthesis per section`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.informe/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "informe home directory (default: ~/.informe)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
