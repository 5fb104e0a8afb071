package salvage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelforge/llmcore/internal/salvage"
)

func TestExtract(t *testing.T) {
	t.Run("should parse a bare JSON object", func(t *testing.T) {
		payload, err := salvage.Extract(`{"title": "Opening scene", "duration": 12}`)

		require.NoError(t, err)
		require.JSONEq(t, `{"title": "Opening scene", "duration": 12}`, string(payload))
	})

	t.Run("should parse a bare JSON array", func(t *testing.T) {
		payload, err := salvage.Extract(`[1, 2, 3]`)

		require.NoError(t, err)
		require.JSONEq(t, `[1, 2, 3]`, string(payload))
	})

	t.Run("should tolerate surrounding whitespace", func(t *testing.T) {
		payload, err := salvage.Extract("\n\t  {\"a\": 1}  \n")

		require.NoError(t, err)
		require.JSONEq(t, `{"a": 1}`, string(payload))
	})

	t.Run("should extract an object wrapped in prose", func(t *testing.T) {
		payload, err := salvage.Extract(`Sure! Here is the JSON you asked for: {"a": 1} Hope that helps.`)

		require.NoError(t, err)
		require.JSONEq(t, `{"a": 1}`, string(payload))
	})

	t.Run("should extract an array wrapped in prose", func(t *testing.T) {
		payload, err := salvage.Extract(`The scenes are: ["intro", "hook", "outro"] as requested.`)

		require.NoError(t, err)
		require.JSONEq(t, `["intro", "hook", "outro"]`, string(payload))
	})

	t.Run("should extract a nested object with internal braces", func(t *testing.T) {
		payload, err := salvage.Extract(`Result: {"outer": {"inner": [1, {"deep": true}]}} done`)

		require.NoError(t, err)
		require.JSONEq(t, `{"outer": {"inner": [1, {"deep": true}]}}`, string(payload))
	})

	t.Run("should fail when trailing prose contains a brace", func(t *testing.T) {
		// Greedy matching grabs first '{' to last '}', which spans the
		// prose brace and no longer parses.
		_, err := salvage.Extract(`{"a": 1} and here is a stray } brace`)

		require.Error(t, err)
	})

	t.Run("should return ParseError when no JSON is present", func(t *testing.T) {
		_, err := salvage.Extract("just plain prose, nothing structured")

		require.Error(t, err)

		var parseErr *salvage.ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Contains(t, err.Error(), "failed to parse JSON")
	})

	t.Run("should not repair malformed JSON", func(t *testing.T) {
		_, err := salvage.Extract(`{"a": 1,}`)

		require.Error(t, err)
	})

	t.Run("should fail on empty input", func(t *testing.T) {
		_, err := salvage.Extract("")

		require.Error(t, err)
	})

	t.Run("should truncate long snippets in the error message", func(t *testing.T) {
		long := make([]byte, 500)
		for i := range long {
			long[i] = 'x'
		}

		_, err := salvage.Extract(string(long))

		require.Error(t, err)

		var parseErr *salvage.ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Len(t, parseErr.Snippet, 200)
	})

	t.Run("should not treat scalar JSON as a payload", func(t *testing.T) {
		// Bare strings and numbers are valid JSON but not structured
		// payloads; callers always expect an object or array.
		_, err := salvage.Extract(`"just a string"`)
		require.Error(t, err)

		_, err = salvage.Extract(`42`)
		require.Error(t, err)
	})
}
