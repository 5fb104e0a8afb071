package anthropic

import "github.com/reelforge/llmcore/internal/domain"

const (
	providerName = "anthropic"

	// ModelHaiku is the cheapest tier.
	ModelHaiku = "claude-3-5-haiku-20241022"

	// ModelSonnet is the quality tier.
	ModelSonnet = "claude-3-5-sonnet-20241022"

	// ModelOpus is the premium tier.
	ModelOpus = "claude-3-opus-20240229"

	// DefaultModel is cost-optimized.
	DefaultModel = ModelHaiku
)

// Pricing returns the static price table, USD per million tokens.
func Pricing() domain.PriceTable {
	return domain.PriceTable{
		ModelHaiku:  {InputPerMTok: 0.25, OutputPerMTok: 1.25},
		ModelSonnet: {InputPerMTok: 3.00, OutputPerMTok: 15.00},
		ModelOpus:   {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	}
}
