package document

import "github.com/jonathan/resume-screener/internal/types"

// MemoryPage is one page of a MemoryDocument.
type MemoryPage struct {
	Spans       []Span
	Annotations []Annotation
}

// MemoryDocument is an in-memory Document implementation. It serves two
// purposes: tests build hostile or degenerate documents without crafting
// PDF bytes, and integrators with their own parser can adapt it instead of
// implementing Document from scratch. The error fields, when non-nil, are
// returned by the corresponding accessor to exercise failure paths.
type MemoryDocument struct {
	Pages         []MemoryPage
	EmbeddedFiles int
	Meta          types.Metadata
	PlainText     string

	SpansErr         error
	AnnotationsErr   error
	EmbeddedFilesErr error
	MetadataErr      error
	TextErr          error
}

func (d *MemoryDocument) PageCount() int {
	return len(d.Pages)
}

func (d *MemoryDocument) Spans(page int) ([]Span, error) {
	if d.SpansErr != nil {
		return nil, d.SpansErr
	}
	if page < 0 || page >= len(d.Pages) {
		return nil, nil
	}
	return d.Pages[page].Spans, nil
}

func (d *MemoryDocument) Annotations(page int) ([]Annotation, error) {
	if d.AnnotationsErr != nil {
		return nil, d.AnnotationsErr
	}
	if page < 0 || page >= len(d.Pages) {
		return nil, nil
	}
	return d.Pages[page].Annotations, nil
}

func (d *MemoryDocument) EmbeddedFileCount() (int, error) {
	if d.EmbeddedFilesErr != nil {
		return 0, d.EmbeddedFilesErr
	}
	return d.EmbeddedFiles, nil
}

func (d *MemoryDocument) Metadata() (types.Metadata, error) {
	if d.MetadataErr != nil {
		return nil, d.MetadataErr
	}
	if d.Meta == nil {
		return types.Metadata{}, nil
	}
	return d.Meta, nil
}

func (d *MemoryDocument) Text() (string, error) {
	if d.TextErr != nil {
		return "", d.TextErr
	}
	return d.PlainText, nil
}

func (d *MemoryDocument) Close() error {
	return nil
}
