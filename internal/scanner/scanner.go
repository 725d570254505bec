// Package scanner screens parsed resume documents for adversarial
// manipulation before their text reaches any downstream scoring model.
package scanner

import (
	"context"
	"log"

	"github.com/jonathan/resume-screener/internal/document"
	"github.com/jonathan/resume-screener/internal/sanitize"
	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultMaxPages bounds how many pages of a document are inspected. A
// hostile document with an extreme page count is a resource-exhaustion
// vector; pages past the budget are not scanned and a PAGE_LIMIT_EXCEEDED
// flag records the truncation.
const DefaultMaxPages = 50

// Options configures a Scanner. The zero value selects the built-in
// sanitization tables, mismatch pairs, and page budget.
type Options struct {
	Sanitizer     *sanitize.Sanitizer
	MismatchPairs []MismatchPair
	MaxPages      int
}

// Scanner is the sole entry point for document scanning. It is immutable
// after construction: every scan threads its own flag accumulator, so one
// Scanner may serve concurrent scans without synchronization.
type Scanner struct {
	sanitizer *sanitize.Sanitizer
	pairs     []MismatchPair
	maxPages  int
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	s := &Scanner{
		sanitizer: opts.Sanitizer,
		pairs:     opts.MismatchPairs,
		maxPages:  opts.MaxPages,
	}
	if s.sanitizer == nil {
		s.sanitizer = sanitize.New()
	}
	if s.pairs == nil {
		s.pairs = DefaultMismatchPairs
	}
	if s.maxPages <= 0 {
		s.maxPages = DefaultMaxPages
	}
	return s
}

// ScanFile parses and scans the document at path. A document that cannot be
// parsed yields a report whose only flag is PDF_PARSE_ERROR; no error or
// panic ever crosses this boundary.
func (s *Scanner) ScanFile(ctx context.Context, path string) *types.ScanReport {
	doc, err := document.Open(path)
	if err != nil {
		return parseFailureReport(err)
	}
	defer func() { _ = doc.Close() }()
	return s.Scan(ctx, doc)
}

// ScanBytes parses and scans a document held in memory.
func (s *Scanner) ScanBytes(ctx context.Context, data []byte) *types.ScanReport {
	doc, err := document.Parse(data)
	if err != nil {
		return parseFailureReport(err)
	}
	defer func() { _ = doc.Close() }()
	return s.Scan(ctx, doc)
}

// Scan runs all security checks against an already-parsed document and
// returns the aggregated report. Stage order: structure validation,
// invisible-text detection, text extraction, sanitization, metadata
// cross-reference. The context deadline is honored between pages and
// stages; expiry aborts the scan with a terminal SCAN_TIMEOUT flag and a
// partial report.
func (s *Scanner) Scan(ctx context.Context, doc document.Document) *types.ScanReport {
	report := &types.ScanReport{
		SecurityFlags: []types.SecurityFlag{},
		Metadata:      types.Metadata{},
	}

	pageCount := doc.PageCount()
	pageLimit := pageCount
	if pageCount > s.maxPages {
		pageLimit = s.maxPages
		report.SecurityFlags = append(report.SecurityFlags, types.PageLimitFlag(s.maxPages, pageCount))
	}

	_, structureFlags, err := checkStructure(ctx, doc, pageLimit)
	report.SecurityFlags = append(report.SecurityFlags, structureFlags...)
	if err != nil {
		return finalizeTimeout(report)
	}

	invisible, invisibleFlags, err := detectInvisibleText(ctx, doc, pageLimit)
	report.InvisibleTextDetected = invisible
	report.SecurityFlags = append(report.SecurityFlags, invisibleFlags...)
	if err != nil {
		return finalizeTimeout(report)
	}

	rawText, err := doc.Text()
	if err != nil {
		// Extraction failure leaves nothing to sanitize or cross-reference,
		// but the structural findings above still stand.
		log.Printf("[SECURITY WARNING] text extraction failed: %v", err)
		rawText = ""
	}

	sanitized := s.sanitizer.Sanitize(rawText)
	report.SanitizedText = sanitized.Text
	report.HomoglyphsDetected = sanitized.HomoglyphsDetected
	report.SecurityFlags = append(report.SecurityFlags, sanitized.Flags...)

	if err := ctx.Err(); err != nil {
		return finalizeTimeout(report)
	}

	meta, err := doc.Metadata()
	if err != nil {
		log.Printf("[SECURITY WARNING] metadata extraction failed: %v", err)
		meta = types.Metadata{}
	}
	report.Metadata = meta

	mismatch, mismatchFlags := crossReferenceMetadata(sanitized.Text, meta, s.pairs)
	report.MetadataMismatch = mismatch
	report.SecurityFlags = append(report.SecurityFlags, mismatchFlags...)

	report.IsSafe = len(report.SecurityFlags) == 0
	return report
}

// parseFailureReport is the short-circuit report for a document that failed
// to parse at the top level: a single PDF_PARSE_ERROR flag and no text.
func parseFailureReport(err error) *types.ScanReport {
	return &types.ScanReport{
		IsSafe:        false,
		SecurityFlags: []types.SecurityFlag{types.ParseErrorFlag(err.Error())},
		Metadata:      types.Metadata{},
	}
}

// finalizeTimeout marks a partially-scanned report as timed out.
func finalizeTimeout(report *types.ScanReport) *types.ScanReport {
	report.SecurityFlags = append(report.SecurityFlags, types.FlagScanTimeout)
	report.IsSafe = false
	return report
}
