package domain

import (
	"errors"
	"fmt"
	"time"
)

// TaskType classifies a generation request for routing purposes.
type TaskType string

const (
	// TaskGeneric is the default classification with no routing preference.
	TaskGeneric TaskType = "generic"

	// TaskLowCost routes to the cheapest available model.
	TaskLowCost TaskType = "low-cost"

	// TaskHighQuality routes to the best-quality model available.
	TaskHighQuality TaskType = "high-quality"

	// TaskRevision routes like low-cost; revisions do not need premium models.
	TaskRevision TaskType = "revision"
)

const (
	// DefaultMaxTokens is applied when a request does not set a token limit.
	DefaultMaxTokens = 2000

	// MinResponseLength is the minimum trimmed length of a usable response.
	MinResponseLength = 10
)

// GenerationRequest represents a single text generation request.
type GenerationRequest struct {
	Prompt          string         `json:"prompt"`
	MaxTokens       int            `json:"max_tokens,omitempty"`
	Temperature     float64        `json:"temperature,omitempty"`
	System          string         `json:"system,omitempty"`
	StopSequences   []string       `json:"stop_sequences,omitempty"`
	Task            TaskType       `json:"task,omitempty"`
	Provider        string         `json:"provider,omitempty"`
	DisableCache    bool           `json:"disable_cache,omitempty"`
	DisableFallback bool           `json:"disable_fallback,omitempty"`
	ExtraParams     map[string]any `json:"extra_params,omitempty"`
}

// Normalize fills in defaults for unset fields.
func (r *GenerationRequest) Normalize() {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Task == "" {
		r.Task = TaskGeneric
	}
}

// Validate checks the request against the generation contract.
func (r *GenerationRequest) Validate() error {
	if r.Prompt == "" {
		return errors.New("prompt cannot be empty")
	}
	if r.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", r.MaxTokens)
	}
	if r.Temperature < 0 || r.Temperature > 1 {
		return fmt.Errorf("temperature must be in [0, 1], got %g", r.Temperature)
	}
	return nil
}

// GenerationResult represents a completed generation.
type GenerationResult struct {
	Text         string    `json:"text"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Cost         float64   `json:"cost"`
	FromCache    bool      `json:"from_cache,omitempty"`
	FinishTime   time.Time `json:"finish_time"`
}
