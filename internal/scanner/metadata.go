package scanner

import (
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

// MismatchPair is one (metadata-term, text-term) contradiction: the pair
// fires when the metadata term appears in the document title or keywords
// while the text term appears anywhere in the sanitized body text.
type MismatchPair struct {
	MetadataTerm string
	TextTerm     string
}

// DefaultMismatchPairs lists seniority-level contradictions checked in order.
// This is a coarse substring heuristic: a legitimate career-progression
// narrative ("started as an intern, now director") will also fire it.
var DefaultMismatchPairs = []MismatchPair{
	{"entry level", "senior"},
	{"junior", "senior"},
	{"intern", "director"},
}

// crossReferenceMetadata compares document metadata against the sanitized
// visible text. It returns whether any contradiction fired plus a flag per
// firing pair carrying both terms for diagnostics.
func crossReferenceMetadata(text string, meta types.Metadata, pairs []MismatchPair) (bool, []types.SecurityFlag) {
	title := strings.ToLower(meta.Get("title"))
	keywords := strings.ToLower(meta.Get("keywords"))
	textLower := strings.ToLower(text)

	var flags []types.SecurityFlag
	mismatch := false

	for _, pair := range pairs {
		if !strings.Contains(title, pair.MetadataTerm) && !strings.Contains(keywords, pair.MetadataTerm) {
			continue
		}
		if strings.Contains(textLower, pair.TextTerm) {
			mismatch = true
			flags = append(flags, types.MetadataMismatchFlag(pair.MetadataTerm, pair.TextTerm))
		}
	}

	return mismatch, flags
}
