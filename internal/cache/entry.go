package cache

import (
	"fmt"
	"time"

	"github.com/reelforge/llmcore/internal/domain"
)

// TimeLayout is the cached_at format: ISO-8601 local time, no timezone.
const TimeLayout = "2006-01-02T15:04:05.999999"

// Entry is the stored representation of one cached response.
type Entry struct {
	Prompt     string         `json:"prompt"`
	Model      string         `json:"model"`
	Response   string         `json:"response"`
	CachedAt   string         `json:"cached_at"`
	Parameters map[string]any `json:"parameters"`
}

// NewEntry builds an entry stamped with the current local time. Nil-valued
// parameters are dropped, matching key derivation.
func NewEntry(prompt string, task domain.TaskType, response string, params map[string]any) Entry {
	kept := make(map[string]any, len(params))
	for k, v := range params {
		if v != nil {
			kept[k] = v
		}
	}

	return Entry{
		Prompt:     prompt,
		Model:      string(task),
		Response:   response,
		CachedAt:   time.Now().Format(TimeLayout),
		Parameters: kept,
	}
}

// Time parses the entry's creation timestamp.
func (e Entry) Time() (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, e.CachedAt, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cached_at %q: %w", e.CachedAt, err)
	}
	return t, nil
}

// Expired reports whether the entry is older than maxAge at the given
// moment.
func (e Entry) Expired(now time.Time, maxAge time.Duration) bool {
	cachedAt, err := e.Time()
	if err != nil {
		return true
	}
	return now.Sub(cachedAt) > maxAge
}
