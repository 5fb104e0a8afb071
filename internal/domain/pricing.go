package domain

const tokensPerMillion = 1_000_000.0

// ModelPricing contains per-million-token pricing for one model.
type ModelPricing struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// PriceTable maps model identifiers to their pricing.
type PriceTable map[string]ModelPricing

// Cost computes the USD cost for the given token counts. The second return
// value reports whether the model is priced; unlisted models cost zero.
func (t PriceTable) Cost(model string, inputTokens, outputTokens int) (float64, bool) {
	pricing, ok := t[model]
	if !ok {
		return 0, false
	}

	inputCost := float64(inputTokens) / tokensPerMillion * pricing.InputPerMTok
	outputCost := float64(outputTokens) / tokensPerMillion * pricing.OutputPerMTok

	return inputCost + outputCost, true
}
