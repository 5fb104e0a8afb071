// Package openrouter provides a managed-gateway adapter that proxies to
// the Claude model family through OpenRouter. It implements the
// domain.Provider interface so the fallback chain treats it like the
// direct backends.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/provider/retry"
)

// Provider implements the domain.Provider interface for OpenRouter.
type Provider struct {
	*domain.Descriptor
	client *Client
	retry  retry.Policy
}

// NewProvider creates a new OpenRouter provider. A missing API key yields
// a provider that reports unavailable rather than an error.
func NewProvider(config Config) *Provider {
	available := config.APIKey != ""

	p := &Provider{
		Descriptor: domain.NewDescriptor(providerName, DefaultModel, available, Pricing()),
		client:     nil,
		retry:      retry.DefaultPolicy(),
	}

	if available {
		p.client = NewClient(config)
	} else {
		observability.Logger().Warn("OpenRouter API key not configured")
	}

	return p
}

// CheapModel returns the cheapest routed model.
func (p *Provider) CheapModel() string {
	return ModelClaudeHaiku
}

// QualityModel returns the best-quality routed model.
func (p *Provider) QualityModel() string {
	return ModelClaudeSonnet
}

// Generate sends a generation request and returns the full response.
func (p *Provider) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.IsAvailable() {
		return nil, fmt.Errorf("openrouter: %w", domain.ErrNotConfigured)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}

	model := p.CurrentModel()
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	var result *domain.GenerationResult

	err := p.retry.Do(ctx, func(attempt int) error {
		logger.Debug("calling OpenRouter API", observability.Int("attempt", attempt))

		resp, callErr := p.client.Complete(ctx, completionRequest{
			Model:       model,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			Stop:        req.StopSequences,
		})
		if callErr != nil {
			return callErr
		}

		text := resp.Text()
		if !p.Validate(text) {
			return fmt.Errorf("openrouter: %w", domain.ErrInvalidResponse)
		}

		cost := p.EstimateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

		logger.Info("generation succeeded",
			observability.Int("input_tokens", resp.Usage.PromptTokens),
			observability.Int("output_tokens", resp.Usage.CompletionTokens),
			observability.Float64("cost", cost))

		result = &domain.GenerationResult{
			Text:         text,
			Provider:     p.Name(),
			Model:        model,
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			Cost:         cost,
			FinishTime:   time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
