package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestPatternsSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "patterns.schema.json"))
	require.NoError(t, err, "should be able to read schema file")

	var v interface{}
	err = json.Unmarshal(data, &v)
	assert.NoError(t, err, "schema file should be valid JSON")
}

func TestPatternsSchema_LoadableAsJSONSchema(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "patterns.schema.json"))
	require.NoError(t, err)

	loader := gojsonschema.NewBytesLoader(data)
	_, err = gojsonschema.NewSchema(loader)
	assert.NoError(t, err, "schema should compile as draft-07 JSON Schema")
}

func TestPatternsSchema_AcceptsWellFormedTables(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "patterns.schema.json"))
	require.NoError(t, err)

	document := `{
		"zero_width": ["\u200b"],
		"homoglyphs": [{"from": "\u0430", "to": "a"}],
		"mismatch_pairs": [{"metadata_term": "junior", "text_term": "senior"}]
	}`

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(data),
		gojsonschema.NewStringLoader(document),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid(), "well-formed tables should validate: %v", result.Errors())
}

func TestPatternsSchema_RejectsUnknownSections(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "patterns.schema.json"))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(data),
		gojsonschema.NewStringLoader(`{"zero_widths": []}`),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid(), "misspelled section names should be rejected")
}

func TestPatternsSchema_RejectsIncompleteMismatchPair(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "patterns.schema.json"))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(data),
		gojsonschema.NewStringLoader(`{"mismatch_pairs": [{"metadata_term": "junior"}]}`),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
