package openrouter

import "github.com/reelforge/llmcore/internal/domain"

const (
	providerName = "openrouter"

	// ModelClaudeHaiku is the cheapest tier. Gateway pricing differs from
	// the direct API.
	ModelClaudeHaiku = "anthropic/claude-3.5-haiku"

	// ModelClaudeSonnet is the quality tier.
	ModelClaudeSonnet = "anthropic/claude-3.5-sonnet"

	// DefaultModel is cost-optimized.
	DefaultModel = ModelClaudeHaiku
)

// Pricing returns the static price table, USD per million tokens.
func Pricing() domain.PriceTable {
	return domain.PriceTable{
		ModelClaudeHaiku:  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
		ModelClaudeSonnet: {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	}
}
