package openrouter

// Config contains OpenRouter provider configuration. A missing APIKey
// marks the provider unavailable for the process lifetime.
type Config struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Timeout int    `env:"OPENROUTER_TIMEOUT"  envDefault:"60"`
}
