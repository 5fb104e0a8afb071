package domain

import (
	"context"
	"time"
)

// Provider represents one text-generation backend.
type Provider interface {
	// Generate sends a generation request and returns the full response.
	// Rate-limit retries happen inside the provider; any error returned
	// here is final from the provider's point of view.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

	// Name returns the stable provider identifier.
	Name() string

	// IsAvailable reports whether the provider is configured with credentials.
	// Unavailable providers must never be invoked.
	IsAvailable() bool

	// CurrentModel returns the active model identifier.
	CurrentModel() string

	// SetModel swaps the active model. Routing uses this to force a tier.
	SetModel(model string)

	// CheapModel returns the cheapest model this provider offers.
	CheapModel() string

	// QualityModel returns the best-quality model this provider offers.
	QualityModel() string

	// EstimateTokens approximates the token count of text.
	EstimateTokens(text string) int

	// EstimateCost returns the USD cost for the given token counts on the
	// active model. Unknown models cost zero.
	EstimateCost(inputTokens, outputTokens int) float64

	// Validate reports whether a raw response is usable.
	Validate(response string) bool
}

// ProviderRegistry manages providers in a fixed priority order.
type ProviderRegistry interface {
	// Register adds a provider to the registry. Registration order is the
	// fallback priority order.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all registered provider names in priority order.
	List(ctx context.Context) []string

	// Available returns the configured providers in priority order.
	Available(ctx context.Context) []Provider
}

// Router selects the primary provider for a request and may swap its
// active model to match the task classification.
type Router interface {
	Route(ctx context.Context, req *GenerationRequest) (Provider, error)
}

// DefaultCacheMaxAge is the expiry threshold applied when the caller does
// not specify one (7 days).
const DefaultCacheMaxAge = 168 * time.Hour

// ResponseCache stores generation responses keyed by a deterministic
// digest of the request. Implementations must be safe for concurrent use;
// readers never observe a half-written entry.
type ResponseCache interface {
	// Get returns the cached response, or ErrCacheMiss. An entry older
	// than maxAge is deleted and reported as a miss.
	Get(ctx context.Context, prompt string, task TaskType, params map[string]any, maxAge time.Duration) (string, error)

	// Set persists a response, overwriting any existing entry for the key.
	Set(ctx context.Context, prompt string, task TaskType, response string, params map[string]any) error

	// ClearExpired removes every entry older than maxAge and returns the
	// number removed.
	ClearExpired(ctx context.Context, maxAge time.Duration) (int, error)

	// ClearAll empties the store and returns the number of entries removed.
	ClearAll(ctx context.Context) (int, error)

	// Stats summarizes the store, skipping unreadable entries.
	Stats(ctx context.Context) (*CacheStats, error)
}

// CacheStats summarizes cache contents.
type CacheStats struct {
	Entries        int       `json:"entries"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	OldestEntry    time.Time `json:"oldest_entry,omitzero"`
	NewestEntry    time.Time `json:"newest_entry,omitzero"`
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
