package scanner

import (
	"context"
	"log"

	"github.com/jonathan/resume-screener/internal/document"
	"github.com/jonathan/resume-screener/internal/types"
)

// colorWhite is the packed RGB value of pure white. The detector assumes a
// white page background, so a span filled with this color is unreadable to a
// human reviewer while remaining machine-extractable.
const colorWhite = 0xFFFFFF

// detectInvisibleText flags text spans rendered white-on-white. At most one
// INVISIBLE_TEXT_DETECTED flag is raised per page: once the first white span
// on a page is found the remaining spans of that page are skipped, but later
// pages are still scanned.
//
// Inspection failure fails closed: it raises RENDERING_INSPECTION_ERROR so a
// malformed rendering stream cannot silently suppress detection.
func detectInvisibleText(ctx context.Context, doc document.Document, pageLimit int) (bool, []types.SecurityFlag, error) {
	var flags []types.SecurityFlag
	detected := false

	for page := 0; page < pageLimit; page++ {
		if err := ctx.Err(); err != nil {
			return detected, flags, err
		}

		spans, err := doc.Spans(page)
		if err != nil {
			log.Printf("[SECURITY WARNING] rendering inspection failed on page %d: %v", page, err)
			flags = append(flags, types.RenderingErrorFlag(err.Error()))
			return detected, flags, nil
		}
		for _, span := range spans {
			if span.Color == colorWhite {
				detected = true
				flags = append(flags, types.FlagInvisibleText)
				break
			}
		}
	}

	return detected, flags, nil
}
