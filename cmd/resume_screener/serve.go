package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes scan, sanitize, and wrap endpoints. Report persistence is enabled when DATABASE_URL is set.`,
	RunE:  runServe,
}

var (
	serveConfigPath   string
	servePort         int
	servePatternsPath string
	serveMaxPages     int
	serveTimeoutSecs  int
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&servePatternsPath, "patterns", "p", "", "Path to a detection pattern table file")
	serveCmd.Flags().IntVar(&serveMaxPages, "max-pages", 0, "Maximum pages inspected per document")
	serveCmd.Flags().IntVar(&serveTimeoutSecs, "timeout", 0, "Per-scan budget in seconds")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("patterns") {
		cfg.PatternsPath = servePatternsPath
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages = serveMaxPages
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = serveTimeoutSecs
	}

	// Persistence is optional: without DATABASE_URL the server still scans,
	// it just cannot store or list reports.
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		PatternsPath: cfg.PatternsPath,
		MaxPages:     cfg.MaxPages,
		ScanTimeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
