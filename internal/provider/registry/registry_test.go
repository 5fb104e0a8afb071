package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/provider/registry"
)

// mockProvider is a minimal domain.Provider for registry tests.
type mockProvider struct {
	name      string
	available bool
}

func (m *mockProvider) Generate(_ context.Context, _ *domain.GenerationRequest) (*domain.GenerationResult, error) {
	return &domain.GenerationResult{Provider: m.name}, nil
}

func (m *mockProvider) Name() string                  { return m.name }
func (m *mockProvider) IsAvailable() bool             { return m.available }
func (m *mockProvider) CurrentModel() string          { return "mock-model" }
func (m *mockProvider) SetModel(_ string)             {}
func (m *mockProvider) CheapModel() string            { return "mock-cheap" }
func (m *mockProvider) QualityModel() string          { return "mock-quality" }
func (m *mockProvider) EstimateTokens(t string) int   { return len(t) / 4 }
func (m *mockProvider) EstimateCost(_, _ int) float64 { return 0 }
func (m *mockProvider) Validate(r string) bool        { return len(r) >= 10 }

func TestRegistry_Register(t *testing.T) {
	t.Run("should register provider successfully", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		err := reg.Register(ctx, &mockProvider{name: "test-provider", available: true})
		require.NoError(t, err)

		registered, err := reg.Get(ctx, "test-provider")
		require.NoError(t, err)
		require.Equal(t, "test-provider", registered.Name())
	})

	t.Run("should return error when provider is nil", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(context.Background(), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider cannot be nil")
	})

	t.Run("should return error when provider name is empty", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(context.Background(), &mockProvider{name: ""})
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider name cannot be empty")
	})

	t.Run("should return error when provider already registered", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &mockProvider{name: "test-provider"}))

		err := reg.Register(ctx, &mockProvider{name: "test-provider"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("should return error when provider name is empty", func(t *testing.T) {
		reg := registry.NewRegistry()

		_, err := reg.Get(context.Background(), "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider name cannot be empty")
	})

	t.Run("should return error when provider not found", func(t *testing.T) {
		reg := registry.NewRegistry()

		_, err := reg.Get(context.Background(), "nonexistent")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})
}

func TestRegistry_List(t *testing.T) {
	t.Run("should return empty list when no providers registered", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.Empty(t, reg.List(context.Background()))
	})

	t.Run("should preserve registration order", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &mockProvider{name: "anthropic"}))
		require.NoError(t, reg.Register(ctx, &mockProvider{name: "openai"}))
		require.NoError(t, reg.Register(ctx, &mockProvider{name: "openrouter"}))

		require.Equal(t, []string{"anthropic", "openai", "openrouter"}, reg.List(ctx))
	})
}

func TestRegistry_Available(t *testing.T) {
	t.Run("should filter out unavailable providers and keep order", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &mockProvider{name: "anthropic", available: true}))
		require.NoError(t, reg.Register(ctx, &mockProvider{name: "openai", available: false}))
		require.NoError(t, reg.Register(ctx, &mockProvider{name: "openrouter", available: true}))

		available := reg.Available(ctx)

		require.Len(t, available, 2)
		require.Equal(t, "anthropic", available[0].Name())
		require.Equal(t, "openrouter", available[1].Name())
	})

	t.Run("should return empty slice when nothing is configured", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		require.NoError(t, reg.Register(ctx, &mockProvider{name: "anthropic", available: false}))

		require.Empty(t, reg.Available(ctx))
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Run("should handle concurrent registrations safely", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		done := make(chan bool)

		for i := 0; i < 10; i++ {
			go func(idx int) {
				_ = reg.Register(ctx, &mockProvider{name: string(rune('a' + idx)), available: true})
				done <- true
			}(i)
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		require.Len(t, reg.List(ctx), 10)
		require.Len(t, reg.Available(ctx), 10)
	})
}
