package types

// Metadata maps document metadata field names (title, keywords, author, ...)
// to their string values. Absent fields read as the empty string.
type Metadata map[string]string

// Get returns the value for key, or "" if the field is absent.
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// ScanReport is the immutable result of one document scan. It is the only
// output the orchestrator produces; every failure path resolves to a
// well-formed report rather than an error or panic.
type ScanReport struct {
	IsSafe                bool           `json:"is_safe"`
	SecurityFlags         []SecurityFlag `json:"security_flags"`
	InvisibleTextDetected bool           `json:"invisible_text_detected"`
	HomoglyphsDetected    bool           `json:"homoglyphs_detected"`
	MetadataMismatch      bool           `json:"metadata_mismatch"`
	SanitizedText         string         `json:"sanitized_text"`
	Metadata              Metadata       `json:"metadata"`
}

// HasFlag reports whether any flag in the report matches the given prefix.
func (r *ScanReport) HasFlag(prefix string) bool {
	for _, f := range r.SecurityFlags {
		if f.Is(prefix) {
			return true
		}
	}
	return false
}
