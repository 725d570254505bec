package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_Get(t *testing.T) {
	m := Metadata{"title": "Jane Doe Resume"}
	assert.Equal(t, "Jane Doe Resume", m.Get("title"))
	assert.Equal(t, "", m.Get("keywords"))

	var nilMeta Metadata
	assert.Equal(t, "", nilMeta.Get("title"))
}

func TestScanReport_HasFlag(t *testing.T) {
	r := &ScanReport{
		SecurityFlags: []SecurityFlag{
			FlagFormWidget,
			MetadataMismatchFlag("junior", "senior"),
		},
	}

	assert.True(t, r.HasFlag(string(FlagFormWidget)))
	assert.True(t, r.HasFlag(PrefixMetadataMismatch))
	assert.False(t, r.HasFlag(PrefixParseError))

	empty := &ScanReport{}
	assert.False(t, empty.HasFlag(string(FlagFormWidget)))
}

func TestScanReport_RoundTrip(t *testing.T) {
	r := ScanReport{
		IsSafe:                false,
		SecurityFlags:         []SecurityFlag{FlagInvisibleText},
		InvisibleTextDetected: true,
		SanitizedText:         "cleaned",
		Metadata:              Metadata{"title": "resume"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded ScanReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}
