package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/scanner"
	"github.com/jonathan/resume-screener/internal/types"
)

// scanConcurrency bounds how many documents are scanned in parallel.
const scanConcurrency = 4

var scanCommand = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan resume documents for adversarial manipulation",
	Long: `Scans one or more PDF documents for hidden text, zero-width characters, homoglyph substitution, suspicious structure, and metadata contradictions.

Every document yields a scan report; an unparseable document yields a report whose only flag is PDF_PARSE_ERROR. Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScanCmd,
}

var (
	scanConfigPath   string
	scanPatternsPath string
	scanMaxPages     int
	scanTimeoutSecs  int
	scanJSON         bool
	scanVerbose      bool
	scanStrict       bool
	scanDatabaseURL  string
)

func init() {
	scanCommand.Flags().StringVar(&scanConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scanCommand.Flags().StringVarP(&scanPatternsPath, "patterns", "p", "", "Path to a detection pattern table file")
	scanCommand.Flags().IntVar(&scanMaxPages, "max-pages", 0, "Maximum pages inspected per document")
	scanCommand.Flags().IntVar(&scanTimeoutSecs, "timeout", 0, "Per-document scan budget in seconds")
	scanCommand.Flags().BoolVar(&scanJSON, "json", false, "Emit reports as JSON instead of formatted text")
	scanCommand.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print detailed report boxes")
	scanCommand.Flags().BoolVar(&scanStrict, "strict", false, "Exit with an error when any document is flagged")
	scanCommand.Flags().StringVar(&scanDatabaseURL, "db-url", "", "PostgreSQL connection URL for report persistence (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scanCommand)
}

// fileReport pairs a scanned path with its report for JSON output.
type fileReport struct {
	File   string            `json:"file"`
	Report *types.ScanReport `json:"report"`
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd, scanConfigPath)
	if err != nil {
		return err
	}

	patterns, err := loadPatternTables(cfg.PatternsPath)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := scanner.New(patterns.ScannerOptions(cfg.MaxPages))

	// Scan files in parallel; reports land in their argument slots so
	// output order matches input order.
	reports := make([]fileReport, len(args))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(scanConcurrency)
	for i, path := range args {
		g.Go(func() error {
			scanCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			reports[i] = fileReport{File: path, Report: s.ScanFile(scanCtx, path)}
			return nil
		})
	}
	_ = g.Wait()

	if scanDatabaseURL == "" {
		scanDatabaseURL = os.Getenv("DATABASE_URL")
	}
	if scanDatabaseURL != "" {
		if err := persistReports(scanDatabaseURL, reports); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to persist reports: %v\n", err)
		}
	}

	if scanJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode reports: %w", err)
		}
	} else {
		printer := observability.NewPrinter(os.Stdout)
		for _, fr := range reports {
			if scanVerbose || cfg.Verbose {
				printer.PrintScanReport(fr.File, fr.Report)
				printer.PrintMetadata(fr.Report.Metadata)
			} else {
				fmt.Println(verdictLine(fr.File, fr.Report))
			}
		}
	}

	if scanStrict {
		flagged := 0
		for _, fr := range reports {
			if !fr.Report.IsSafe {
				flagged++
			}
		}
		if flagged > 0 {
			return fmt.Errorf("%d of %d documents flagged", flagged, len(reports))
		}
	}

	return nil
}

// verdictLine renders the one-line scan summary for non-verbose output.
func verdictLine(path string, report *types.ScanReport) string {
	if report.IsSafe {
		return fmt.Sprintf("%s: SAFE", path)
	}
	return fmt.Sprintf("%s: UNSAFE (%d flags)", path, len(report.SecurityFlags))
}

// persistReports stores every report and prints the assigned record IDs.
func persistReports(databaseURL string, reports []fileReport) error {
	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	for _, fr := range reports {
		id, err := database.SaveReport(ctx, fr.File, fr.Report)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored report %s for %s\n", id, fr.File)
	}
	return nil
}

// loadMergedConfig loads the optional config file and applies CLI overrides.
// Only flags explicitly set on the command line override config values.
func loadMergedConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("patterns") {
		cfg.PatternsPath = scanPatternsPath
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages = scanMaxPages
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = scanTimeoutSecs
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scanVerbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadPatternTables loads a pattern table file, or returns the built-in
// tables when no path is configured.
func loadPatternTables(path string) (*config.PatternConfig, error) {
	if path == "" {
		return &config.PatternConfig{}, nil
	}
	patterns, err := config.LoadPatterns(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}
	return patterns, nil
}
