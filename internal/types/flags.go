// Package types provides type definitions for structured data shared across the resume-screener system.
package types

import (
	"fmt"
	"strings"
)

// SecurityFlag is a diagnostic raised by a scan stage. Flags are drawn from a
// fixed vocabulary; some carry a free-text detail suffix after a colon.
// Callers that need to match flags programmatically should match on the
// prefix (see Prefix/Is), never on the full string.
type SecurityFlag string

// Flags without a detail suffix.
const (
	FlagZeroWidthChars SecurityFlag = "ZERO_WIDTH_CHARS_FOUND"
	FlagHomoglyphs     SecurityFlag = "HOMOGLYPHS_DETECTED"
	FlagInvisibleText  SecurityFlag = "INVISIBLE_TEXT_DETECTED"
	FlagFormWidget     SecurityFlag = "PDF_CONTAINS_FORM_WIDGET"
	FlagEmbeddedFiles  SecurityFlag = "PDF_CONTAINS_EMBEDDED_FILES"
	FlagScanTimeout    SecurityFlag = "SCAN_TIMEOUT"
)

// Prefixes for flags that carry a detail suffix.
const (
	PrefixParseError        = "PDF_PARSE_ERROR"
	PrefixStructureError    = "PDF_STRUCTURE_ERROR"
	PrefixRenderingError    = "RENDERING_INSPECTION_ERROR"
	PrefixMetadataMismatch  = "METADATA_MISMATCH"
	PrefixPageLimitExceeded = "PAGE_LIMIT_EXCEEDED"
)

// ParseErrorFlag records a terminal document parse failure.
func ParseErrorFlag(detail string) SecurityFlag {
	return detailFlag(PrefixParseError, detail)
}

// StructureErrorFlag records a non-terminal failure during structural inspection.
func StructureErrorFlag(detail string) SecurityFlag {
	return detailFlag(PrefixStructureError, detail)
}

// RenderingErrorFlag records a failure during span color inspection.
// Rendering inspection fails closed: raising this flag marks the scan unsafe.
func RenderingErrorFlag(detail string) SecurityFlag {
	return detailFlag(PrefixRenderingError, detail)
}

// MetadataMismatchFlag records a metadata/content contradiction with both terms.
func MetadataMismatchFlag(metaTerm, textTerm string) SecurityFlag {
	return detailFlag(PrefixMetadataMismatch,
		fmt.Sprintf("'%s' in metadata but '%s' in text", metaTerm, textTerm))
}

// PageLimitFlag records that the scan inspected only the first scanned of total pages.
func PageLimitFlag(scanned, total int) SecurityFlag {
	return detailFlag(PrefixPageLimitExceeded,
		fmt.Sprintf("scanned first %d of %d pages", scanned, total))
}

func detailFlag(prefix, detail string) SecurityFlag {
	return SecurityFlag(prefix + ": " + detail)
}

// Prefix returns the machine-matchable portion of the flag, i.e. everything
// before the first colon.
func (f SecurityFlag) Prefix() string {
	if i := strings.Index(string(f), ":"); i >= 0 {
		return string(f[:i])
	}
	return string(f)
}

// Is reports whether the flag's prefix equals the given identifier.
func (f SecurityFlag) Is(prefix string) bool {
	return f.Prefix() == prefix
}
