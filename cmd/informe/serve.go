package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/informeapp/informe/internal/config"
	"github.com/informeapp/informe/internal/home"
	"github.com/informeapp/informe/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Informe server",
	Long: `Start the Informe HTTP server.

The server opens the SQLite store under the home directory, seeds the
default area catalog on first run, and serves the analysis API.

Examples:
  informe serve                    # Start on default port 8080
  informe serve --port 3000        # Start on custom port
  informe serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Write a starter config on first run so there is something to edit
		if cfgFile == "" && !h.ConfigExists() {
			if err := config.WriteDefault(h.ConfigPath()); err != nil {
				logger.Warn("failed to write default config", "path", h.ConfigPath(), "error", err)
			} else {
				logger.Info("wrote default config", "path", h.ConfigPath())
			}
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") && cm.Get().Server.Host != "" {
			host = cm.Get().Server.Host
		}
		if !cmd.Flags().Changed("port") && cm.Get().Server.Port != "" {
			port = cm.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
