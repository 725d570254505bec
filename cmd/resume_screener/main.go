// Package main provides the entry point for the resume screener CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_screener",
	Short: "Adversarial resume document scanner",
	Long:  "Resume Screener inspects uploaded resume documents for hidden text, zero-width characters, homoglyph substitution, and prompt-injection payloads before their content reaches any scoring model.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
