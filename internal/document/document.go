// Package document provides parsed access to uploaded resume documents.
// It exposes the narrow view the security scanner needs: pages, per-span
// rendering color, annotations, embedded files, metadata, and plain text.
package document

import "github.com/jonathan/resume-screener/internal/types"

// Span is a run of rendered text on one page with its fill color packed as a
// 24-bit RGB integer (0xRRGGBB). Span text is best-effort: it may still be
// font-encoded, and is carried for diagnostics only.
type Span struct {
	Text  string
	Color int
	Page  int
}

// Annotation is a page-level annotation object, reduced to its subtype
// (e.g. "Widget", "Link").
type Annotation struct {
	Subtype string
}

// Document is a parsed resume document. Implementations must be read-only:
// a Document is queried during a scan, never mutated. A single Document is
// not safe for concurrent readers; each scan owns its Document exclusively.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Spans returns the text spans of the given page (0-based) with their
	// fill colors.
	Spans(page int) ([]Span, error)

	// Annotations returns the annotation objects of the given page (0-based).
	Annotations(page int) ([]Annotation, error)

	// EmbeddedFileCount returns the number of embedded file attachments.
	EmbeddedFileCount() (int, error)

	// Metadata returns the document metadata fields, keyed by lower-case
	// field name (title, author, keywords, ...).
	Metadata() (types.Metadata, error)

	// Text returns all visible text concatenated across pages.
	Text() (string, error)

	// Close releases any underlying resources.
	Close() error
}
