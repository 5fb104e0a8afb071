// Package anthropic provides a direct adapter for the Anthropic messages
// API. It implements the domain.Provider interface over a hand-rolled
// HTTP client; there is no official Anthropic Go SDK to lean on.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/provider/retry"
)

// Provider implements the domain.Provider interface for Anthropic.
type Provider struct {
	*domain.Descriptor
	client *Client
	retry  retry.Policy
}

// NewProvider creates a new Anthropic provider. A missing API key yields a
// provider that reports unavailable rather than an error, so the caller
// can register it and let routing skip it.
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
		observability.Logger().Warn("Anthropic API key not configured")
	}

	return p
}

// CheapModel returns the cheapest Anthropic model.
func (p *Provider) CheapModel() string {
	return ModelHaiku
}

// QualityModel returns the best-quality Anthropic model for the price.
func (p *Provider) QualityModel() string {
	return ModelSonnet
}

// Generate sends a generation request and returns the full response.
func (p *Provider) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.IsAvailable() {
		return nil, fmt.Errorf("anthropic: %w", domain.ErrNotConfigured)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	model := p.CurrentModel()
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	var result *domain.GenerationResult

	err := p.retry.Do(ctx, func(attempt int) error {
		logger.Debug("calling Anthropic API", observability.Int("attempt", attempt))

		resp, callErr := p.client.CreateMessage(ctx, messageRequest{
			Model:         model,
			MaxTokens:     req.MaxTokens,
			Temperature:   req.Temperature,
			System:        req.System,
			StopSequences: req.StopSequences,
			Messages: []message{
				{Role: "user", Content: req.Prompt},
			},
		})
		if callErr != nil {
			return callErr
		}

		text := resp.Text()
		if !p.Validate(text) {
			return fmt.Errorf("anthropic: %w", domain.ErrInvalidResponse)
		}

		cost := p.EstimateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		logger.Info("generation succeeded",
			observability.Int("input_tokens", resp.Usage.InputTokens),
			observability.Int("output_tokens", resp.Usage.OutputTokens),
			observability.Float64("cost", cost))

		result = &domain.GenerationResult{
			Text:         text,
			Provider:     p.Name(),
			Model:        model,
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
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
