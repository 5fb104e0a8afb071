// Package openai provides an adapter for the OpenAI API using the official
// SDK. It implements the domain.Provider interface and handles conversion
// between domain types and SDK types. SDK-level retries are disabled so
// the shared retry policy governs backoff.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/provider/retry"
)

// DefaultSystemPrompt is applied when a request carries no system
// instruction; the chat API expects one.
const DefaultSystemPrompt = "You are a helpful assistant."

// Provider implements the domain.Provider interface for OpenAI.
type Provider struct {
	*domain.Descriptor
	client openai.Client
	retry  retry.Policy
}

// NewProvider creates a new OpenAI provider. A missing API key yields a
// provider that reports unavailable rather than an error.
func NewProvider(config Config) *Provider {
	available := config.APIKey != ""
	if !available {
		observability.Logger().Warn("OpenAI API key not configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		Descriptor: domain.NewDescriptor(providerName, DefaultModel, available, Pricing()),
		client:     openai.NewClient(opts...),
		retry:      retry.DefaultPolicy(),
	}
}

// CheapModel returns the cheapest OpenAI model.
func (p *Provider) CheapModel() string {
	return ModelGPT4oMini
}

// QualityModel returns the best-quality OpenAI model.
func (p *Provider) QualityModel() string {
	return ModelGPT4o
}

// Generate sends a generation request and returns the full response.
func (p *Provider) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.IsAvailable() {
		return nil, fmt.Errorf("openai: %w", domain.ErrNotConfigured)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	model := p.CurrentModel()
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	params := p.toSDKParams(model, req)

	var result *domain.GenerationResult

	err := p.retry.Do(ctx, func(attempt int) error {
		logger.Debug("calling OpenAI API", observability.Int("attempt", attempt))

		resp, callErr := p.client.Chat.Completions.New(ctx, params)
		if callErr != nil {
			return classifyError(callErr)
		}

		text := ""
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Message.Content
		}

		if !p.Validate(text) {
			return fmt.Errorf("openai: %w", domain.ErrInvalidResponse)
		}

		inputTokens := int(resp.Usage.PromptTokens)
		outputTokens := int(resp.Usage.CompletionTokens)
		cost := p.EstimateCost(inputTokens, outputTokens)

		logger.Info("generation succeeded",
			observability.Int("input_tokens", inputTokens),
			observability.Int("output_tokens", outputTokens),
			observability.Float64("cost", cost))

		result = &domain.GenerationResult{
			Text:         text,
			Provider:     p.Name(),
			Model:        model,
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
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

// toSDKParams converts a domain request to SDK ChatCompletionNewParams.
func (p *Provider) toSDKParams(model string, req *domain.GenerationRequest) openai.ChatCompletionNewParams {
	system := req.System
	if system == "" {
		system = DefaultSystemPrompt
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	if len(req.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.StopSequences,
		}
	}

	return params
}

// classifyError maps SDK errors onto the domain taxonomy.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("openai: %w", domain.ErrRateLimited)
	}
	return fmt.Errorf("OpenAI API call failed: %w", err)
}
