package scanner

import (
	"context"
	"log"

	"github.com/jonathan/resume-screener/internal/document"
	"github.com/jonathan/resume-screener/internal/types"
)

// widgetSubtype is the annotation subtype of interactive form fields.
const widgetSubtype = "Widget"

// checkStructure inspects document-level constructs that have no place in a
// resume: interactive form widgets and embedded file attachments. It returns
// whether the document is structurally clean together with the flags raised.
//
// An inspection failure degrades rather than aborts: it raises a single
// PDF_STRUCTURE_ERROR flag, marks the document not clean, and lets the rest
// of the scan continue.
func checkStructure(ctx context.Context, doc document.Document, pageLimit int) (bool, []types.SecurityFlag, error) {
	var flags []types.SecurityFlag

	for page := 0; page < pageLimit; page++ {
		if err := ctx.Err(); err != nil {
			return len(flags) == 0, flags, err
		}

		annots, err := doc.Annotations(page)
		if err != nil {
			log.Printf("[SECURITY WARNING] structure inspection degraded on page %d: %v", page, err)
			flags = append(flags, types.StructureErrorFlag(err.Error()))
			return false, flags, nil
		}
		for _, a := range annots {
			if a.Subtype == widgetSubtype {
				flags = append(flags, types.FlagFormWidget)
			}
		}
	}

	count, err := doc.EmbeddedFileCount()
	if err != nil {
		log.Printf("[SECURITY WARNING] embedded file inspection degraded: %v", err)
		flags = append(flags, types.StructureErrorFlag(err.Error()))
		return false, flags, nil
	}
	if count > 0 {
		flags = append(flags, types.FlagEmbeddedFiles)
	}

	return len(flags) == 0, flags, nil
}
