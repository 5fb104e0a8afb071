package anthropic

// Config contains Anthropic provider configuration. A missing APIKey marks
// the provider unavailable for the process lifetime.
type Config struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Timeout int    `env:"ANTHROPIC_TIMEOUT"  envDefault:"60"`
}
