package domain

import (
	"strings"
	"sync"

	"github.com/reelforge/llmcore/internal/observability"
)

const approxCharsPerToken = 4

// Descriptor carries the bookkeeping state every provider shares: stable
// name, active model, availability and price table. Adapters embed it and
// add the backend call plus their model tier hints. All fields except the
// active model are immutable after construction; routing may swap the
// active model per call.
type Descriptor struct {
	name      string
	available bool
	pricing   PriceTable

	mu    sync.Mutex
	model string
}

// NewDescriptor creates a provider descriptor.
func NewDescriptor(name, defaultModel string, available bool, pricing PriceTable) *Descriptor {
	return &Descriptor{
		name:      name,
		available: available,
		pricing:   pricing,
		mu:        sync.Mutex{},
		model:     defaultModel,
	}
}

// Name returns the stable provider identifier.
func (d *Descriptor) Name() string {
	return d.name
}

// IsAvailable reports whether credentials were present at construction.
func (d *Descriptor) IsAvailable() bool {
	return d.available
}

// CurrentModel returns the active model identifier.
func (d *Descriptor) CurrentModel() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.model
}

// SetModel swaps the active model.
func (d *Descriptor) SetModel(model string) {
	d.mu.Lock()
	d.model = model
	d.mu.Unlock()
}

// EstimateTokens approximates token count at ~4 characters per token.
func (d *Descriptor) EstimateTokens(text string) int {
	return len(text) / approxCharsPerToken
}

// EstimateCost returns the USD cost for the given token counts on the
// active model. Unknown models cost zero and log a warning.
func (d *Descriptor) EstimateCost(inputTokens, outputTokens int) float64 {
	model := d.CurrentModel()

	cost, priced := d.pricing.Cost(model, inputTokens, outputTokens)
	if !priced {
		observability.Logger().Warn("pricing not available for model",
			observability.String("provider", d.name),
			observability.String("model", model))
	}

	return cost
}

// Validate reports whether a raw response is usable: non-blank and at
// least MinResponseLength characters after trimming.
func (d *Descriptor) Validate(response string) bool {
	trimmed := strings.TrimSpace(response)

	if trimmed == "" {
		observability.Logger().Warn("empty response",
			observability.String("provider", d.name))
		return false
	}

	if len(trimmed) < MinResponseLength {
		observability.Logger().Warn("response too short",
			observability.String("provider", d.name),
			observability.Int("length", len(trimmed)))
		return false
	}

	return true
}
