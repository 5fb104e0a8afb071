package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/provider/openai"
)

func TestNewProvider(t *testing.T) {
	t.Run("should report available with an API key", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{APIKey: "sk-test"})

		require.True(t, p.IsAvailable())
		require.Equal(t, "openai", p.Name())
		require.Equal(t, openai.ModelGPT4oMini, p.CurrentModel())
	})

	t.Run("should report unavailable without an API key", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{})

		require.False(t, p.IsAvailable())
	})

	t.Run("should expose model tiers", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{APIKey: "sk-test"})

		require.Equal(t, openai.ModelGPT4oMini, p.CheapModel())
		require.Equal(t, openai.ModelGPT4o, p.QualityModel())
	})
}

func TestProvider_Generate(t *testing.T) {
	t.Run("should generate through the chat completions API", func(t *testing.T) {
		var gotModel string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Model string `json:"model"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotModel = body.Model

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"model":  openai.ModelGPT4oMini,
				"choices": []map[string]any{
					{
						"index": 0,
						"message": map[string]any{
							"role":    "assistant",
							"content": "a perfectly valid response",
						},
						"finish_reason": "stop",
					},
				},
				"usage": map[string]any{
					"prompt_tokens":     1_000_000,
					"completion_tokens": 1_000_000,
					"total_tokens":      2_000_000,
				},
			})
		}))
		t.Cleanup(server.Close)

		p := openai.NewProvider(openai.Config{
			APIKey:  "sk-test",
			BaseURL: server.URL,
			Timeout: 5,
		})

		result, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:      "Write a hook",
			MaxTokens:   500,
			Temperature: 0.7,
		})

		require.NoError(t, err)
		require.Equal(t, "a perfectly valid response", result.Text)
		require.Equal(t, "openai", result.Provider)
		require.Equal(t, openai.ModelGPT4oMini, gotModel)
		require.Equal(t, 1_000_000, result.InputTokens)
		require.Equal(t, 1_000_000, result.OutputTokens)
		// 4o-mini: $0.15/M in plus $0.60/M out.
		require.InDelta(t, 0.75, result.Cost, 0.0001)
	})

	t.Run("should reject a too-short response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"choices": []map[string]any{
					{"index": 0, "message": map[string]any{"role": "assistant", "content": "nope"}},
				},
				"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6},
			})
		}))
		t.Cleanup(server.Close)

		p := openai.NewProvider(openai.Config{
			APIKey:  "sk-test",
			BaseURL: server.URL,
			Timeout: 5,
		})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.ErrorIs(t, err, domain.ErrInvalidResponse)
	})

	t.Run("should return ErrNotConfigured when no key is set", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("should return error when request is nil", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{APIKey: "sk-test"})

		_, err := p.Generate(context.Background(), nil)

		require.Error(t, err)
		require.Contains(t, err.Error(), "request cannot be nil")
	})

	t.Run("should validate the request before calling the API", func(t *testing.T) {
		p := openai.NewProvider(openai.Config{APIKey: "sk-test"})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:      "Write a hook",
			MaxTokens:   500,
			Temperature: 2.0,
		})

		require.Error(t, err)
		require.Contains(t, err.Error(), "temperature must be in [0, 1]")
	})
}

func TestPricing(t *testing.T) {
	t.Run("should price every published model", func(t *testing.T) {
		table := openai.Pricing()

		models := []string{
			openai.ModelGPT4o,
			openai.ModelGPT4oMini,
			openai.ModelGPT4Turbo,
			openai.ModelGPT35Turbo,
		}
		for _, model := range models {
			_, priced := table.Cost(model, 1, 1)
			require.True(t, priced, "model %s must be priced", model)
		}
	})
}
