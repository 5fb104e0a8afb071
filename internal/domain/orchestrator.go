package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/salvage"
)

// Orchestrator drives generation requests through routing, the fallback
// chain and the response cache. The owning application constructs it once
// at startup and passes it to callers.
type Orchestrator struct {
	registry ProviderRegistry
	router   Router
	cache    ResponseCache
	events   EventPublisher
}

// NewOrchestrator creates a new orchestrator (DI constructor). A nil cache
// disables response caching entirely.
func NewOrchestrator(
	registry ProviderRegistry,
	router Router,
	cache ResponseCache,
	events EventPublisher,
) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		router:   router,
		cache:    cache,
		events:   events,
	}
}

// Generate handles a generation request: cache lookup, routing, ordered
// provider attempts, cache write. Either one provider's full successful
// result is returned or the aggregated failure; never a partial result.
func (o *Orchestrator) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	ctx = observability.WithTask(ctx, string(req.Task))
	logger := observability.FromContext(ctx)

	if cached, ok := o.cacheLookup(ctx, req); ok {
		return cached, nil
	}

	primary, err := o.router.Route(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("routing failed: %w", err)
	}

	candidates := []Provider{primary}
	if !req.DisableFallback {
		for _, p := range o.registry.Available(ctx) {
			if p.Name() != primary.Name() {
				candidates = append(candidates, p)
			}
		}
	}

	var lastErr error
	lastProvider := primary.Name()

	for i, provider := range candidates {
		attemptCtx := observability.WithProvider(ctx, provider.Name())
		attemptLogger := observability.FromContext(attemptCtx)

		if i > 0 {
			attemptLogger.Info("trying fallback provider",
				observability.Int("attempt", i+1))
			o.publish(attemptCtx, "generation.fallback", map[string]interface{}{
				"provider": provider.Name(),
				"attempt":  i + 1,
			})
		}

		result, genErr := provider.Generate(attemptCtx, req)
		if genErr != nil {
			lastErr = genErr
			lastProvider = provider.Name()

			attemptLogger.Error("provider failed",
				observability.Int("attempt", i+1),
				observability.Error(genErr))
			o.publish(attemptCtx, "generation.provider_failed", map[string]interface{}{
				"provider": provider.Name(),
				"attempt":  i + 1,
				"error":    genErr.Error(),
			})
			continue
		}

		o.cacheStore(attemptCtx, req, result.Text)

		o.publish(attemptCtx, "generation.success", map[string]interface{}{
			"provider":      result.Provider,
			"model":         result.Model,
			"input_tokens":  result.InputTokens,
			"output_tokens": result.OutputTokens,
			"cost":          result.Cost,
		})

		return result, nil
	}

	logger.Error("all providers failed",
		observability.Int("attempts", len(candidates)),
		observability.Error(lastErr))

	return nil, &AllProvidersFailedError{
		Attempts:     len(candidates),
		LastProvider: lastProvider,
		LastErr:      lastErr,
	}
}

// GenerateJSON generates and then salvage-parses a JSON payload from the
// response. On a parse failure the raw generation result is still returned
// alongside the error so the caller keeps the text.
func (o *Orchestrator) GenerateJSON(
	ctx context.Context,
	req *GenerationRequest,
) (*GenerationResult, json.RawMessage, error) {
	result, err := o.Generate(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	payload, parseErr := salvage.Extract(result.Text)
	if parseErr != nil {
		return result, nil, fmt.Errorf("structured generation: %w", parseErr)
	}

	return result, payload, nil
}

// AvailableProviders returns the names of the configured providers in
// priority order.
func (o *Orchestrator) AvailableProviders(ctx context.Context) []string {
	providers := o.registry.Available(ctx)
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

// ClearCache empties the response cache and returns the entry count removed.
func (o *Orchestrator) ClearCache(ctx context.Context) (int, error) {
	if o.cache == nil {
		return 0, nil
	}
	return o.cache.ClearAll(ctx)
}

// ClearExpiredCache removes entries older than the default max age.
func (o *Orchestrator) ClearExpiredCache(ctx context.Context) (int, error) {
	if o.cache == nil {
		return 0, nil
	}
	return o.cache.ClearExpired(ctx, DefaultCacheMaxAge)
}

// CacheStats summarizes the response cache.
func (o *Orchestrator) CacheStats(ctx context.Context) (*CacheStats, error) {
	if o.cache == nil {
		return &CacheStats{}, nil
	}
	return o.cache.Stats(ctx)
}

func (o *Orchestrator) cacheLookup(ctx context.Context, req *GenerationRequest) (*GenerationResult, bool) {
	if req.DisableCache || o.cache == nil {
		return nil, false
	}

	logger := observability.FromContext(ctx)

	cached, err := o.cache.Get(ctx, req.Prompt, req.Task, req.ExtraParams, DefaultCacheMaxAge)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("cache get failed, continuing without cache",
				observability.Error(err))
		}
		return nil, false
	}

	logger.Info("cache hit - returning cached response")
	o.publish(ctx, "cache.hit", map[string]interface{}{
		"task": string(req.Task),
	})

	return &GenerationResult{
		Text:      cached,
		FromCache: true,
	}, true
}

func (o *Orchestrator) cacheStore(ctx context.Context, req *GenerationRequest, response string) {
	if req.DisableCache || o.cache == nil {
		return
	}

	if err := o.cache.Set(ctx, req.Prompt, req.Task, response, req.ExtraParams); err != nil {
		observability.FromContext(ctx).Warn("failed to store in cache",
			observability.Error(err))
	}
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if o.events == nil {
		return
	}
	o.events.Publish(ctx, eventType, data)
}
