// Package safeguards protects the downstream language model from prompt
// injection carried inside resume text.
package safeguards

import "regexp"

// Sentinel lines delimiting resume content handed to the model. Everything
// between them is quoted, non-executable content.
const (
	SentinelStart = "<<<RESUME_START>>>"
	SentinelEnd   = "<<<RESUME_END>>>"
)

// delimiterPattern matches any <<<...>>> sequence. Non-greedy, so a resume
// cannot smuggle a closing delimiter and escape the wrapper.
var delimiterPattern = regexp.MustCompile(`<<<.*?>>>`)

// roleMarkerPatterns match the literal role-marker tokens common prompt
// injection payloads rely on.
var roleMarkerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[SYSTEM\]`),
	regexp.MustCompile(`(?i)\[INST\]`),
}

const blockedToken = "[BLOCKED]"

// WrapForModel prepares sanitized resume text for consumption by a language
// model: it strips delimiter look-alikes, neutralizes role markers, and
// wraps the result in the sentinel lines. The output is the only form of
// resume text that may be passed to a model.
func WrapForModel(text string) string {
	cleaned := delimiterPattern.ReplaceAllString(text, "")
	for _, pattern := range roleMarkerPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, blockedToken)
	}
	return SentinelStart + "\n" + cleaned + "\n" + SentinelEnd
}
