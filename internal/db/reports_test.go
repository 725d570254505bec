package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

func TestBuildListReportsQuery_Defaults(t *testing.T) {
	query, args := buildListReportsQuery(ReportFilters{})

	assert.NotContains(t, query, "ILIKE")
	assert.NotContains(t, query, "is_safe = FALSE")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $1")
	require.Len(t, args, 1)
	assert.Equal(t, 50, args[0])
}

func TestBuildListReportsQuery_AllFilters(t *testing.T) {
	query, args := buildListReportsQuery(ReportFilters{
		Filename:   "resume",
		UnsafeOnly: true,
		Limit:      10,
	})

	assert.Contains(t, query, "filename ILIKE $1")
	assert.Contains(t, query, "is_safe = FALSE")
	assert.Contains(t, query, "LIMIT $2")
	require.Len(t, args, 2)
	assert.Equal(t, "%resume%", args[0])
	assert.Equal(t, 10, args[1])
}

func TestBuildListReportsQuery_UnsafeOnlyDoesNotConsumePlaceholder(t *testing.T) {
	query, args := buildListReportsQuery(ReportFilters{UnsafeOnly: true, Limit: 5})

	assert.Contains(t, query, "LIMIT $1")
	require.Len(t, args, 1)
	assert.Equal(t, 5, args[0])
}

func TestScanRecord_JSONRoundTrip(t *testing.T) {
	rec := ScanRecord{
		ID:       uuid.New(),
		Filename: "resume.pdf",
		IsSafe:   false,
		Report: types.ScanReport{
			SecurityFlags:         []types.SecurityFlag{types.FlagInvisibleText},
			InvisibleTextDetected: true,
			SanitizedText:         "text",
			Metadata:              types.Metadata{"title": "resume"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded ScanRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	id := uuid.New()
	err := notFoundError(id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), id.String())
}
