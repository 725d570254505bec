package config

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jonathan/resume-screener/internal/sanitize"
	"github.com/jonathan/resume-screener/internal/scanner"
	"github.com/jonathan/resume-screener/internal/schemas"
)

// PatternConfig is the on-disk form of the detection pattern tables. Every
// section is optional; an absent section keeps the built-in table.
type PatternConfig struct {
	ZeroWidth     []string        `json:"zero_width,omitempty"`
	Homoglyphs    []HomoglyphRule `json:"homoglyphs,omitempty"`
	MismatchPairs []MismatchRule  `json:"mismatch_pairs,omitempty"`
}

// HomoglyphRule maps a single look-alike character to its canonical form.
type HomoglyphRule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MismatchRule pairs a metadata term with a contradicting body term.
type MismatchRule struct {
	MetadataTerm string `json:"metadata_term"`
	TextTerm     string `json:"text_term"`
}

// LoadPatterns reads a pattern table file, validates it against the pattern
// schema when the schema file is resolvable, and returns the parsed config.
func LoadPatterns(path string) (*PatternConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patterns file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.PatternsSchema); schemaPath != "" {
		if err := schemas.ValidateJSONString(mustReadSchema(schemaPath), string(data)); err != nil {
			return nil, fmt.Errorf("patterns file %s is invalid: %w", path, err)
		}
	}

	var pc PatternConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse patterns JSON: %w", err)
	}

	if err := pc.check(); err != nil {
		return nil, fmt.Errorf("patterns file %s: %w", path, err)
	}

	return &pc, nil
}

func mustReadSchema(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		// ResolveSchemaPath only returns paths that exist; a read failure
		// here degrades to an empty schema, which validates everything.
		return "{}"
	}
	return string(data)
}

// check enforces the constraints the schema cannot express precisely:
// pattern characters must be exactly one code point each.
func (pc *PatternConfig) check() error {
	for i, s := range pc.ZeroWidth {
		if utf8.RuneCountInString(s) != 1 {
			return fmt.Errorf("zero_width[%d] must be a single character, got %q", i, s)
		}
	}
	for i, h := range pc.Homoglyphs {
		if utf8.RuneCountInString(h.From) != 1 {
			return fmt.Errorf("homoglyphs[%d].from must be a single character, got %q", i, h.From)
		}
		if utf8.RuneCountInString(h.To) != 1 {
			return fmt.Errorf("homoglyphs[%d].to must be a single character, got %q", i, h.To)
		}
	}
	for i, p := range pc.MismatchPairs {
		if p.MetadataTerm == "" || p.TextTerm == "" {
			return fmt.Errorf("mismatch_pairs[%d] must set both metadata_term and text_term", i)
		}
	}
	return nil
}

// Sanitizer builds a sanitizer from the configured tables, falling back to
// the built-in tables for any absent section.
func (pc *PatternConfig) Sanitizer() *sanitize.Sanitizer {
	zeroWidth := sanitize.ZeroWidthChars
	if len(pc.ZeroWidth) > 0 {
		zeroWidth = make([]rune, 0, len(pc.ZeroWidth))
		for _, s := range pc.ZeroWidth {
			r, _ := utf8.DecodeRuneInString(s)
			zeroWidth = append(zeroWidth, r)
		}
	}

	homoglyphs := sanitize.Homoglyphs
	if len(pc.Homoglyphs) > 0 {
		homoglyphs = make([]sanitize.HomoglyphMapping, 0, len(pc.Homoglyphs))
		for _, h := range pc.Homoglyphs {
			from, _ := utf8.DecodeRuneInString(h.From)
			to, _ := utf8.DecodeRuneInString(h.To)
			homoglyphs = append(homoglyphs, sanitize.HomoglyphMapping{From: from, To: to})
		}
	}

	return sanitize.NewWithTables(zeroWidth, homoglyphs)
}

// MismatchTable returns the configured cross-reference pairs, or the built-in
// table when the section is absent.
func (pc *PatternConfig) MismatchTable() []scanner.MismatchPair {
	if len(pc.MismatchPairs) == 0 {
		return scanner.DefaultMismatchPairs
	}
	pairs := make([]scanner.MismatchPair, 0, len(pc.MismatchPairs))
	for _, p := range pc.MismatchPairs {
		pairs = append(pairs, scanner.MismatchPair{MetadataTerm: p.MetadataTerm, TextTerm: p.TextTerm})
	}
	return pairs
}

// ScannerOptions assembles scanner options from the pattern tables and limits.
// A zero maxPages keeps the scanner default.
func (pc *PatternConfig) ScannerOptions(maxPages int) scanner.Options {
	return scanner.Options{
		Sanitizer:     pc.Sanitizer(),
		MismatchPairs: pc.MismatchTable(),
		MaxPages:      maxPages,
	}
}
