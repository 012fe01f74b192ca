package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/analysis"
	"github.com/informeapp/informe/internal/api"
	"github.com/informeapp/informe/internal/config"
	"github.com/informeapp/informe/internal/extract"
	"github.com/informeapp/informe/internal/home"
	"github.com/informeapp/informe/internal/pipeline"
	"github.com/informeapp/informe/internal/providers"
	"github.com/informeapp/informe/internal/store"
)

var (
	analyzeOracle         string
	analyzeSave           bool
	analyzeSkipComponents bool
	analyzeSkipAreas      bool
	analyzeVerbose        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a document locally without a server",
	Long: `Analyze a document (PDF, XLSX, TXT, or MD) in-process and print the
full result.

The area catalog is read from the local store under the home directory;
on first run the default catalog is seeded. Use --save to persist the
result so it shows up in "informe api analyses list" later.

Examples:
  informe analyze report.pdf
  informe analyze results.xlsx --oracle mock -o json
  informe analyze notes.md --skip-components --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		level := slog.LevelWarn
		if analyzeVerbose {
			level = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		format, err := extract.DetectFormat(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cm.Get().ToRegistryConfig())

		var oracle providers.Oracle
		if analyzeOracle != "" {
			oracle, err = registry.Get(analyzeOracle)
		} else {
			oracle, err = registry.Default()
		}
		if err != nil {
			return err
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		db, err := store.New(h.DatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SeedAreas(ctx, store.DefaultAreas()); err != nil {
			return err
		}
		catalog, err := db.ListAreas(ctx)
		if err != nil {
			return err
		}

		cfg := analysis.DefaultRunConfig()
		cfg.IdentifyComponents = !analyzeSkipComponents
		cfg.SuggestAreaAssignments = !analyzeSkipAreas

		var opts []pipeline.Option
		if n := cm.Get().Defaults.Concurrency; n > 0 {
			opts = append(opts, pipeline.WithConcurrency(n))
		}
		p := pipeline.New(oracle, logger, opts...)
		result, err := p.Analyze(ctx, &pipeline.Request{
			Document: data,
			Format:   format,
			Catalog:  catalog,
			Config:   cfg,
			Metadata: map[string]string{"filename": filepath.Base(args[0])},
		})
		if err != nil {
			return err
		}

		if analyzeSave {
			if err := db.SaveAnalysis(ctx, result, filepath.Base(args[0])); err != nil {
				return fmt.Errorf("failed to save analysis: %w", err)
			}
		}

		return api.Output(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOracle, "oracle", "", "Oracle to use (default: configured default)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the result to the local store")
	analyzeCmd.Flags().BoolVar(&analyzeSkipComponents, "skip-components", false, "Skip component identification")
	analyzeCmd.Flags().BoolVar(&analyzeSkipAreas, "skip-areas", false, "Skip area classification and template synthesis")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(analyzeCmd)
}
