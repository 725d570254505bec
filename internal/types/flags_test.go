package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityFlag_Prefix(t *testing.T) {
	testCases := []struct {
		name     string
		flag     SecurityFlag
		expected string
	}{
		{"bare flag", FlagZeroWidthChars, "ZERO_WIDTH_CHARS_FOUND"},
		{"detail flag", ParseErrorFlag("bad xref"), "PDF_PARSE_ERROR"},
		{"detail containing colon", StructureErrorFlag("page 3: broken dict"), "PDF_STRUCTURE_ERROR"},
		{"empty flag", SecurityFlag(""), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.flag.Prefix())
		})
	}
}

func TestSecurityFlag_Is(t *testing.T) {
	assert.True(t, ParseErrorFlag("anything").Is(PrefixParseError))
	assert.False(t, ParseErrorFlag("anything").Is(PrefixStructureError))
	assert.True(t, FlagScanTimeout.Is(string(FlagScanTimeout)))

	// Matching must be on the prefix, not on a substring of the detail.
	f := StructureErrorFlag("nested PDF_PARSE_ERROR text")
	assert.False(t, f.Is(PrefixParseError))
}

func TestMetadataMismatchFlag_Format(t *testing.T) {
	f := MetadataMismatchFlag("entry level", "senior")
	assert.Equal(t, SecurityFlag("METADATA_MISMATCH: 'entry level' in metadata but 'senior' in text"), f)
	assert.True(t, f.Is(PrefixMetadataMismatch))
}

func TestPageLimitFlag_Format(t *testing.T) {
	f := PageLimitFlag(50, 120)
	assert.Equal(t, SecurityFlag("PAGE_LIMIT_EXCEEDED: scanned first 50 of 120 pages"), f)
	assert.True(t, f.Is(PrefixPageLimitExceeded))
}

func TestRenderingErrorFlag_Format(t *testing.T) {
	f := RenderingErrorFlag("content stream truncated")
	assert.Equal(t, SecurityFlag("RENDERING_INSPECTION_ERROR: content stream truncated"), f)
}
