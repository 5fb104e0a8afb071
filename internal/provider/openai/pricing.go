package openai

import "github.com/reelforge/llmcore/internal/domain"

const (
	providerName = "openai"

	// ModelGPT4oMini is the cheapest tier.
	ModelGPT4oMini = "gpt-4o-mini"

	// ModelGPT4o is the quality tier.
	ModelGPT4o = "gpt-4o"

	// ModelGPT4Turbo is the previous-generation premium model.
	ModelGPT4Turbo = "gpt-4-turbo"

	// ModelGPT35Turbo is the legacy budget model.
	ModelGPT35Turbo = "gpt-3.5-turbo"

	// DefaultModel is the affordable fallback.
	DefaultModel = ModelGPT4oMini
)

// Pricing returns the static price table, USD per million tokens.
func Pricing() domain.PriceTable {
	return domain.PriceTable{
		ModelGPT4o:      {InputPerMTok: 2.50, OutputPerMTok: 10.00},
		ModelGPT4oMini:  {InputPerMTok: 0.15, OutputPerMTok: 0.60},
		ModelGPT4Turbo:  {InputPerMTok: 10.00, OutputPerMTok: 30.00},
		ModelGPT35Turbo: {InputPerMTok: 0.50, OutputPerMTok: 1.50},
	}
}
