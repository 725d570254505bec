// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-screener/internal/sanitize"
	"github.com/jonathan/resume-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScanReport outputs a human-readable summary of one scan report.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintScanReport(filename string, report *types.ScanReport) {
	if report == nil {
		return
	}

	if report.IsSafe {
		border := strings.Repeat("─", boxWidth-2)
		fmt.Fprintf(p.out, "┌%s┐\n", border)
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT PASSED: "+filename)
		fmt.Fprintf(p.out, "└%s┘\n", border)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", filename))
	sb.WriteString(fmt.Sprintf("Verdict:  UNSAFE (%d flags)\n\n", len(report.SecurityFlags)))

	count := min(len(report.SecurityFlags), maxItemsToShow)
	for i := 0; i < count; i++ {
		flag := string(report.SecurityFlags[i])
		if len(flag) > 50 {
			flag = flag[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", flag))
	}
	if len(report.SecurityFlags) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(report.SecurityFlags)-maxItemsToShow))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Invisible text:    %v\n", report.InvisibleTextDetected))
	sb.WriteString(fmt.Sprintf("Homoglyphs:        %v\n", report.HomoglyphsDetected))
	sb.WriteString(fmt.Sprintf("Metadata mismatch: %v", report.MetadataMismatch))

	p.printBox("SECURITY SCAN REPORT", sb.String())
}

// PrintSanitizeResult outputs the outcome of a standalone sanitization pass.
func (p *Printer) PrintSanitizeResult(result sanitize.Result) {
	var sb strings.Builder

	if len(result.Flags) == 0 {
		sb.WriteString("No adversarial patterns found\n")
	} else {
		sb.WriteString(fmt.Sprintf("Raised %d flags:\n", len(result.Flags)))
		count := min(len(result.Flags), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Flags[i]))
		}
		if len(result.Flags) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Flags)-maxItemsToShow))
		}
	}

	sb.WriteString("\n")
	preview := result.Text
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	sb.WriteString(fmt.Sprintf("Output:   %s\n", preview))
	sb.WriteString(fmt.Sprintf("Length:   %d bytes", len(result.Text)))

	p.printBox("SANITIZED TEXT", sb.String())
}

// PrintMetadata outputs extracted document metadata fields.
func (p *Printer) PrintMetadata(meta types.Metadata) {
	if len(meta) == 0 {
		return
	}

	var sb strings.Builder
	for _, key := range []string{"title", "author", "subject", "keywords", "creator", "producer"} {
		value := meta.Get(key)
		if value == "" {
			continue
		}
		if len(value) > 40 {
			value = value[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-10s %s\n", key+":", value))
	}
	if sb.Len() == 0 {
		return
	}

	p.printBox("DOCUMENT METADATA", strings.TrimSuffix(sb.String(), "\n"))
}
