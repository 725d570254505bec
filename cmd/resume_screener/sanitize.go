package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/safeguards"
	"github.com/jonathan/resume-screener/internal/types"
)

var sanitizeCommand = &cobra.Command{
	Use:   "sanitize [text]",
	Short: "Sanitize raw resume text",
	Long: `Strips zero-width characters, normalizes homoglyphs, and applies Unicode compatibility normalization to raw text.

Reads from stdin when no argument is given. With --wrap, the sanitized text is additionally wrapped in delimiter sentinels for safe model consumption.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitizeCmd,
}

var (
	sanitizePatternsPath string
	sanitizeWrap         bool
	sanitizeJSON         bool
	sanitizeVerbose      bool
)

func init() {
	sanitizeCommand.Flags().StringVarP(&sanitizePatternsPath, "patterns", "p", "", "Path to a detection pattern table file")
	sanitizeCommand.Flags().BoolVar(&sanitizeWrap, "wrap", false, "Wrap the sanitized text in model-safety sentinels")
	sanitizeCommand.Flags().BoolVar(&sanitizeJSON, "json", false, "Emit the result as JSON")
	sanitizeCommand.Flags().BoolVarP(&sanitizeVerbose, "verbose", "v", false, "Print a detailed result box")

	rootCmd.AddCommand(sanitizeCommand)
}

// sanitizeOutput is the JSON shape for --json output.
type sanitizeOutput struct {
	SanitizedText      string               `json:"sanitized_text"`
	SecurityFlags      []types.SecurityFlag `json:"security_flags"`
	HomoglyphsDetected bool                 `json:"homoglyphs_detected"`
	Wrapped            string               `json:"wrapped,omitempty"`
}

func runSanitizeCmd(_ *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	patterns, err := loadPatternTables(sanitizePatternsPath)
	if err != nil {
		return err
	}

	result := patterns.Sanitizer().Sanitize(text)

	var wrapped string
	if sanitizeWrap {
		wrapped = safeguards.WrapForModel(result.Text)
	}

	if sanitizeJSON {
		flags := result.Flags
		if flags == nil {
			flags = []types.SecurityFlag{}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sanitizeOutput{
			SanitizedText:      result.Text,
			SecurityFlags:      flags,
			HomoglyphsDetected: result.HomoglyphsDetected,
			Wrapped:            wrapped,
		})
	}

	if sanitizeVerbose {
		observability.NewPrinter(os.Stdout).PrintSanitizeResult(result)
	}

	if sanitizeWrap {
		fmt.Println(wrapped)
	} else {
		fmt.Println(result.Text)
	}
	return nil
}
