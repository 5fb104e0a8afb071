// Package routing maps a task classification to a provider and model
// tier. Provider priority is the registry's registration order.
package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
)

// qualityPreference is the fixed provider order for high-quality tasks:
// a primary and the fall-through secondary.
var qualityPreference = []string{"anthropic", "openai"} //nolint:gochecknoglobals // Static policy table

// PolicyRouter implements task-classification routing.
type PolicyRouter struct {
	registry domain.ProviderRegistry
}

// NewRouter creates a new router.
func NewRouter(registry domain.ProviderRegistry) *PolicyRouter {
	return &PolicyRouter{
		registry: registry,
	}
}

// Route selects the primary provider for a request and forces its model
// tier where the policy calls for one. Returns domain.ErrNoProvider when
// nothing is available; callers must treat that as fatal configuration.
func (r *PolicyRouter) Route(ctx context.Context, req *domain.GenerationRequest) (domain.Provider, error) {
	if req == nil {
		return nil, errors.New("route request cannot be nil")
	}

	available := r.registry.Available(ctx)
	if len(available) == 0 {
		return nil, domain.ErrNoProvider
	}

	// Explicit override wins when the named provider is configured; its
	// active model is left untouched.
	if req.Provider != "" {
		for _, provider := range available {
			if provider.Name() == req.Provider {
				return provider, nil
			}
		}
		observability.FromContext(ctx).Warn("requested provider not available",
			observability.String("requested", req.Provider))
	}

	switch req.Task {
	case domain.TaskLowCost, domain.TaskRevision:
		// Cheapest model on the first available provider.
		provider := available[0]
		provider.SetModel(provider.CheapModel())
		return provider, nil

	case domain.TaskHighQuality:
		for _, name := range qualityPreference {
			if provider, ok := find(available, name); ok {
				provider.SetModel(provider.QualityModel())
				return provider, nil
			}
		}
		// Neither preferred backend is configured; take the best the
		// first available provider offers.
		provider := available[0]
		provider.SetModel(provider.QualityModel())
		return provider, nil

	case domain.TaskGeneric:
		return available[0], nil

	default:
		return nil, fmt.Errorf("unknown task classification: %s", req.Task)
	}
}

func find(providers []domain.Provider, name string) (domain.Provider, bool) {
	for _, provider := range providers {
		if provider.Name() == name {
			return provider, true
		}
	}
	return nil, false
}
