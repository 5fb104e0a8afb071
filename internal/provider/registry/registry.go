package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelforge/llmcore/internal/domain"
)

// Registry implements the ProviderRegistry interface. Registration order
// is the fallback priority order.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
	order     []string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		providers: make(map[string]domain.Provider),
		order:     nil,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(_ context.Context, provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	r.order = append(r.order, name)

	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(_ context.Context, providerName string) (domain.Provider, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[providerName]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}

	return provider, nil
}

// List returns all registered provider names in priority order.
func (r *Registry) List(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Available returns the configured providers in priority order.
// Providers without credentials are never handed out.
func (r *Registry) Available(_ context.Context) []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]domain.Provider, 0, len(r.order))
	for _, name := range r.order {
		if provider := r.providers[name]; provider.IsAvailable() {
			available = append(available, provider)
		}
	}

	return available
}
