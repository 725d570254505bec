package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/document"
	"github.com/jonathan/resume-screener/internal/types"
)

func TestDetectInvisibleText_WhiteSpan(t *testing.T) {
	doc := &document.MemoryDocument{
		Pages: []document.MemoryPage{
			{Spans: []document.Span{
				{Text: "Visible name", Color: 0x000000, Page: 0},
				{Text: "hidden keyword stuffing", Color: 0xFFFFFF, Page: 0},
			}},
		},
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, doc.PageCount())
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, []types.SecurityFlag{types.FlagInvisibleText}, flags)
}

func TestDetectInvisibleText_AllBlackSpans(t *testing.T) {
	doc := &document.MemoryDocument{
		Pages: []document.MemoryPage{
			{Spans: []document.Span{
				{Text: "name", Color: 0},
				{Text: "experience", Color: 0},
			}},
		},
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, doc.PageCount())
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, flags)
}

func TestDetectInvisibleText_NearWhiteNotFlagged(t *testing.T) {
	// The heuristic is exact equality with pure white; 0xFFFFFE passes.
	doc := &document.MemoryDocument{
		Pages: []document.MemoryPage{
			{Spans: []document.Span{{Text: "faint", Color: 0xFFFFFE}}},
		},
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, doc.PageCount())
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, flags)
}

func TestDetectInvisibleText_OneFlagPerPage(t *testing.T) {
	// Several white spans on one page raise a single flag; a second page
	// with white spans raises its own.
	doc := &document.MemoryDocument{
		Pages: []document.MemoryPage{
			{Spans: []document.Span{
				{Text: "hidden a", Color: 0xFFFFFF},
				{Text: "hidden b", Color: 0xFFFFFF},
			}},
			{Spans: []document.Span{{Text: "clean", Color: 0}}},
			{Spans: []document.Span{{Text: "hidden c", Color: 0xFFFFFF}}},
		},
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, doc.PageCount())
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, []types.SecurityFlag{types.FlagInvisibleText, types.FlagInvisibleText}, flags)
}

func TestDetectInvisibleText_FailsClosed(t *testing.T) {
	doc := &document.MemoryDocument{
		Pages:    []document.MemoryPage{{}},
		SpansErr: errors.New("corrupt content stream"),
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, doc.PageCount())
	require.NoError(t, err)
	assert.False(t, detected)
	require.Len(t, flags, 1)
	assert.True(t, flags[0].Is(types.PrefixRenderingError))
	assert.Contains(t, string(flags[0]), "corrupt content stream")
}

func TestDetectInvisibleText_RespectsPageLimit(t *testing.T) {
	doc := &document.MemoryDocument{
		Pages: []document.MemoryPage{
			{Spans: []document.Span{{Text: "clean", Color: 0}}},
			{Spans: []document.Span{{Text: "hidden", Color: 0xFFFFFF}}},
		},
	}

	detected, flags, err := detectInvisibleText(context.Background(), doc, 1)
	require.NoError(t, err)
	assert.False(t, detected)
	assert.Empty(t, flags)
}

func TestDetectInvisibleText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &document.MemoryDocument{Pages: []document.MemoryPage{{}}}
	_, _, err := detectInvisibleText(ctx, doc, doc.PageCount())
	assert.ErrorIs(t, err, context.Canceled)
}
