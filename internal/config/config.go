package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/reelforge/llmcore/internal/provider/anthropic"
	"github.com/reelforge/llmcore/internal/provider/openai"
	"github.com/reelforge/llmcore/internal/provider/openrouter"
)

// Config represents the orchestration service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Anthropic  anthropic.Config
	OpenAI     openai.Config
	OpenRouter openrouter.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"300"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CacheConfig selects and locates the response cache backend.
type CacheConfig struct {
	Backend string `env:"CACHE_BACKEND" envDefault:"file"`
	Dir     string `env:"CACHE_DIR"     envDefault:".cache/llm"`
}

// RedisConfig contains Redis connection settings for the redis cache
// backend.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Cache      *CacheConfig
	Redis      *RedisConfig
	Anthropic  *anthropic.Config
	OpenAI     *openai.Config
	OpenRouter *openrouter.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:        dig.Out{},
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Cache:      &cfg.Cache,
		Redis:      &cfg.Redis,
		Anthropic:  &cfg.Anthropic,
		OpenAI:     &cfg.OpenAI,
		OpenRouter: &cfg.OpenRouter,
	}
}
