package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-screener/internal/types"
)

// metadataFields maps PDF Info dictionary keys to the lower-case field
// names exposed in Metadata.
var metadataFields = map[string]string{
	"Title":    "title",
	"Author":   "author",
	"Subject":  "subject",
	"Keywords": "keywords",
	"Creator":  "creator",
	"Producer": "producer",
}

// pdfDocument implements Document on top of a parsed PDF. The underlying
// library panics on some malformed inputs, so every accessor runs behind a
// recover barrier that converts panics into *ParseError values.
type pdfDocument struct {
	reader    *pdf.Reader
	path      string
	pageCount int
}

// Open parses the PDF at path. Malformed input returns a *ParseError.
func Open(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "cannot read file", Cause: err}
	}
	doc, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	doc.(*pdfDocument).path = path
	return doc, nil
}

// Parse parses a PDF from a byte buffer. Malformed input returns a
// *ParseError.
func Parse(data []byte) (doc Document, err error) {
	defer recoverParseError(&err, "parsing document")

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return nil, &ParseError{Message: "malformed PDF", Cause: rerr}
	}

	d := &pdfDocument{reader: reader}
	// NumPage walks the page tree and can itself panic on hostile input, so
	// resolve it once here inside the recover barrier.
	d.pageCount = reader.NumPage()
	return d, nil
}

// recoverParseError converts a panic into a *ParseError assigned to *err.
func recoverParseError(err *error, action string) {
	if r := recover(); r != nil {
		*err = &ParseError{Message: fmt.Sprintf("%s: %v", action, r)}
	}
}

func (d *pdfDocument) PageCount() int {
	return d.pageCount
}

func (d *pdfDocument) Spans(page int) (spans []Span, err error) {
	defer recoverParseError(&err, fmt.Sprintf("reading spans of page %d", page))

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, nil
	}

	content, cerr := d.pageContent(p)
	if cerr != nil {
		return nil, cerr
	}

	for _, run := range parseContent(content) {
		spans = append(spans, Span{Text: run.text, Color: run.color, Page: page})
	}
	return spans, nil
}

// pageContent returns the decoded content stream bytes of a page,
// concatenating array-valued Contents entries.
func (d *pdfDocument) pageContent(p pdf.Page) ([]byte, error) {
	contents := p.V.Key("Contents")
	var buf bytes.Buffer

	appendStream := func(v pdf.Value) error {
		if v.Kind() != pdf.Stream {
			return nil
		}
		r := v.Reader()
		defer r.Close()
		if _, err := io.Copy(&buf, r); err != nil {
			return &ParseError{Message: "decoding content stream", Cause: err}
		}
		buf.WriteByte('\n')
		return nil
	}

	switch contents.Kind() {
	case pdf.Stream:
		if err := appendStream(contents); err != nil {
			return nil, err
		}
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if err := appendStream(contents.Index(i)); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

func (d *pdfDocument) Annotations(page int) (annots []Annotation, err error) {
	defer recoverParseError(&err, fmt.Sprintf("reading annotations of page %d", page))

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, nil
	}

	arr := p.V.Key("Annots")
	if arr.Kind() != pdf.Array {
		return nil, nil
	}
	for i := 0; i < arr.Len(); i++ {
		subtype := arr.Index(i).Key("Subtype")
		if subtype.Kind() == pdf.Name {
			annots = append(annots, Annotation{Subtype: subtype.Name()})
		}
	}
	return annots, nil
}

func (d *pdfDocument) EmbeddedFileCount() (count int, err error) {
	defer recoverParseError(&err, "reading embedded files")

	tree := d.reader.Trailer().Key("Root").Key("Names").Key("EmbeddedFiles")
	if tree.Kind() != pdf.Dict {
		return 0, nil
	}
	return countNameTreeEntries(tree, 0), nil
}

// countNameTreeEntries counts leaf entries of a PDF name tree. The depth cap
// bounds traversal of hostile self-referencing trees.
func countNameTreeEntries(node pdf.Value, depth int) int {
	if depth > 32 {
		return 0
	}
	count := 0
	names := node.Key("Names")
	if names.Kind() == pdf.Array {
		count += names.Len() / 2
	}
	kids := node.Key("Kids")
	if kids.Kind() == pdf.Array {
		for i := 0; i < kids.Len(); i++ {
			count += countNameTreeEntries(kids.Index(i), depth+1)
		}
	}
	return count
}

func (d *pdfDocument) Metadata() (meta types.Metadata, err error) {
	defer recoverParseError(&err, "reading metadata")

	meta = types.Metadata{}
	info := d.reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return meta, nil
	}
	for key, field := range metadataFields {
		v := info.Key(key)
		if v.Kind() == pdf.String {
			meta[field] = v.Text()
		}
	}
	return meta, nil
}

func (d *pdfDocument) Text() (text string, err error) {
	defer recoverParseError(&err, "extracting text")

	r, terr := d.reader.GetPlainText()
	if terr != nil {
		return "", &ParseError{Path: d.path, Message: "extracting text", Cause: terr}
	}
	var sb strings.Builder
	if _, cerr := io.Copy(&sb, r); cerr != nil {
		return "", &ParseError{Path: d.path, Message: "reading extracted text", Cause: cerr}
	}
	return sb.String(), nil
}

func (d *pdfDocument) Close() error {
	return nil
}
