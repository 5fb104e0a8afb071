// Package salvage extracts a JSON payload from backend text that is
// expected to contain JSON but may be wrapped in prose. It is best-effort
// recovery against verbose backends, not a JSON repair tool: malformed
// JSON is never fixed, only located.
package salvage

import (
	"encoding/json"
	"fmt"
	"strings"
)

const snippetLength = 200

// ParseError is returned when every extraction strategy failed. It carries
// a truncated prefix of the original text for diagnostics.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON from response: %s", e.Snippet)
}

// Extract attempts to parse raw as JSON. Strategies, in order: the whole
// string; the substring from the first '{' to the last '}'; the substring
// from the first '[' to the last ']'. The greedy brace matching can
// mis-extract when prose after the payload contains braces; that attempt
// then fails to parse and the error propagates.
func Extract(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)

	if payload, ok := tryParse(trimmed); ok {
		return payload, nil
	}

	if payload, ok := tryParse(slice(raw, '{', '}')); ok {
		return payload, nil
	}

	if payload, ok := tryParse(slice(raw, '[', ']')); ok {
		return payload, nil
	}

	return nil, &ParseError{Snippet: snippet(raw)}
}

// tryParse validates that s is a complete JSON object or array.
func tryParse(s string) (json.RawMessage, bool) {
	if s == "" {
		return nil, false
	}

	switch s[0] {
	case '{', '[':
	default:
		return nil, false
	}

	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}

	return json.RawMessage(s), true
}

// slice returns the substring from the first open delimiter to the last
// close delimiter, or "" if either is missing or out of order.
func slice(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)

	if start == -1 || end == -1 || end < start {
		return ""
	}

	return s[start : end+1]
}

func snippet(s string) string {
	if len(s) > snippetLength {
		return s[:snippetLength]
	}
	return s
}
