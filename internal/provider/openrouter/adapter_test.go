package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/provider/openrouter"
)

func completionResponse(text string, promptTokens, completionTokens int) map[string]any {
	return map[string]any{
		"id":    "gen-test",
		"model": openrouter.ModelClaudeHaiku,
		"choices": []map[string]any{
			{"message": map[string]any{"content": text}},
		},
		"usage": map[string]any{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"total_tokens":      promptTokens + completionTokens,
		},
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *openrouter.Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return openrouter.NewProvider(openrouter.Config{
		APIKey:  "sk-or-test",
		BaseURL: server.URL,
		Timeout: 5,
	})
}

func TestNewProvider(t *testing.T) {
	t.Run("should report available with an API key", func(t *testing.T) {
		p := openrouter.NewProvider(openrouter.Config{APIKey: "sk-or-test"})

		require.True(t, p.IsAvailable())
		require.Equal(t, "openrouter", p.Name())
		require.Equal(t, openrouter.ModelClaudeHaiku, p.CurrentModel())
	})

	t.Run("should report unavailable without an API key", func(t *testing.T) {
		p := openrouter.NewProvider(openrouter.Config{})

		require.False(t, p.IsAvailable())
	})

	t.Run("should expose model tiers", func(t *testing.T) {
		p := openrouter.NewProvider(openrouter.Config{APIKey: "sk-or-test"})

		require.Equal(t, openrouter.ModelClaudeHaiku, p.CheapModel())
		require.Equal(t, openrouter.ModelClaudeSonnet, p.QualityModel())
	})
}

func TestProvider_Generate(t *testing.T) {
	t.Run("should generate with bearer auth on the chat completions route", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any

		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)

			_ = json.NewEncoder(w).Encode(completionResponse("a perfectly valid response", 1_000_000, 500_000))
		})

		result, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.NoError(t, err)
		require.Equal(t, "a perfectly valid response", result.Text)
		require.Equal(t, "openrouter", result.Provider)
		require.Equal(t, 1_000_000, result.InputTokens)
		require.Equal(t, 500_000, result.OutputTokens)
		// Routed haiku: $0.80/M in plus $4.00/M out on half a million.
		require.InDelta(t, 2.80, result.Cost, 0.0001)

		require.Equal(t, "/chat/completions", gotPath)
		require.Equal(t, "Bearer sk-or-test", gotAuth)
		require.Equal(t, openrouter.ModelClaudeHaiku, gotBody["model"])
	})

	t.Run("should prepend a system message when the request has one", func(t *testing.T) {
		var gotMessages []map[string]any

		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Messages []map[string]any `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotMessages = body.Messages

			_ = json.NewEncoder(w).Encode(completionResponse("a perfectly valid response", 10, 20))
		})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
			System:    "You write short-form video scripts.",
		})

		require.NoError(t, err)
		require.Len(t, gotMessages, 2)
		require.Equal(t, "system", gotMessages[0]["role"])
		require.Equal(t, "user", gotMessages[1]["role"])
	})

	t.Run("should send only the user message without a system prompt", func(t *testing.T) {
		var gotMessages []map[string]any

		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Messages []map[string]any `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotMessages = body.Messages

			_ = json.NewEncoder(w).Encode(completionResponse("a perfectly valid response", 10, 20))
		})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.NoError(t, err)
		require.Len(t, gotMessages, 1)
		require.Equal(t, "user", gotMessages[0]["role"])
	})

	t.Run("should reject an empty response body", func(t *testing.T) {
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(completionResponse("", 5, 0))
		})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.ErrorIs(t, err, domain.ErrInvalidResponse)
	})

	t.Run("should fail fast on a server error", func(t *testing.T) {
		calls := 0
		p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.Error(t, err)
		require.Contains(t, err.Error(), "status 502")
		require.Equal(t, 1, calls)
	})

	t.Run("should return ErrNotConfigured when no key is set", func(t *testing.T) {
		p := openrouter.NewProvider(openrouter.Config{})

		_, err := p.Generate(context.Background(), &domain.GenerationRequest{
			Prompt:    "Write a hook",
			MaxTokens: 500,
		})

		require.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}
