// Package cache defines the deterministic key derivation and on-disk
// entry format shared by the response cache backends.
package cache

import (
	"crypto/md5" //nolint:gosec // Key derivation, not security
	"encoding/hex"
	"encoding/json"

	"github.com/reelforge/llmcore/internal/domain"
)

// Key computes the cache key for a request: the lowercase hex MD5 digest
// of the canonical JSON serialization of {prompt, model, ...params}. The
// task classification travels in the model field. Nil-valued params are
// excluded, and map serialization sorts keys, so insertion order never
// changes the key.
func Key(prompt string, task domain.TaskType, params map[string]any) string {
	input := map[string]any{
		"prompt": prompt,
		"model":  string(task),
	}

	for k, v := range params {
		if v != nil {
			input[k] = v
		}
	}

	canonical, _ := json.Marshal(input)
	sum := md5.Sum(canonical) //nolint:gosec // Key derivation, not security

	return hex.EncodeToString(sum[:])
}
