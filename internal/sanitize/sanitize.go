package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/resume-screener/internal/types"
)

// Result holds the output of one sanitization pass.
type Result struct {
	Text               string               // Sanitized text
	Flags              []types.SecurityFlag // Flags raised, in detection order
	HomoglyphsDetected bool                 // Whether any homoglyph table entry fired
}

// Sanitizer applies the three-step text sanitization pass: zero-width
// stripping, homoglyph normalization, then NFKC canonicalization.
// A Sanitizer is immutable after construction and safe for concurrent use.
type Sanitizer struct {
	zeroWidth  []rune
	homoglyphs []HomoglyphMapping
}

// New returns a Sanitizer using the built-in tables.
func New() *Sanitizer {
	return NewWithTables(ZeroWidthChars, Homoglyphs)
}

// NewWithTables returns a Sanitizer using custom tables, for deployments
// that load adversarial patterns from configuration. The slices are copied;
// callers may not mutate a Sanitizer after construction.
func NewWithTables(zeroWidth []rune, homoglyphs []HomoglyphMapping) *Sanitizer {
	return &Sanitizer{
		zeroWidth:  append([]rune(nil), zeroWidth...),
		homoglyphs: append([]HomoglyphMapping(nil), homoglyphs...),
	}
}

// Sanitize runs the full sanitization pass over text. The pass is
// idempotent: sanitizing its own output is a no-op.
func (s *Sanitizer) Sanitize(text string) Result {
	var flags []types.SecurityFlag
	homoglyphs := false

	// Step 1: strip zero-width characters, one flag per code point present.
	for _, c := range s.zeroWidth {
		if strings.ContainsRune(text, c) {
			flags = append(flags, types.FlagZeroWidthChars)
			text = strings.ReplaceAll(text, string(c), "")
		}
	}

	// Step 2: rewrite homoglyphs to their Latin equivalents.
	for _, m := range s.homoglyphs {
		if strings.ContainsRune(text, m.From) {
			homoglyphs = true
			flags = append(flags, types.FlagHomoglyphs)
			text = strings.ReplaceAll(text, string(m.From), string(m.To))
		}
	}

	// Step 3: canonical compatibility normalization.
	text = norm.NFKC.String(text)

	return Result{Text: text, Flags: flags, HomoglyphsDetected: homoglyphs}
}
