package main

import (
	"context"
	"fmt"
	"log"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/reelforge/llmcore/internal/cache/file"
	rediscache "github.com/reelforge/llmcore/internal/cache/redis"
	"github.com/reelforge/llmcore/internal/config"
	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/httpserver"
	"github.com/reelforge/llmcore/internal/httpserver/middleware"
	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/provider/anthropic"
	"github.com/reelforge/llmcore/internal/provider/openai"
	"github.com/reelforge/llmcore/internal/provider/openrouter"
	"github.com/reelforge/llmcore/internal/provider/registry"
	"github.com/reelforge/llmcore/internal/routing"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus()
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Providers. Unconfigured ones register anyway and report unavailable;
	// routing and fallback skip them.
	if err := container.Provide(func(cfg *anthropic.Config) *anthropic.Provider {
		return anthropic.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Anthropic provider: %v", err)
	}
	if err := container.Provide(func(cfg *openai.Config) *openai.Provider {
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}
	if err := container.Provide(func(cfg *openrouter.Config) *openrouter.Provider {
		return openrouter.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenRouter provider: %v", err)
	}

	// Register providers with registry in priority order (invoked for
	// side effects; the logger dependency forces initialization before
	// the provider constructors log).
	if err := container.Invoke(func(
		_ *zap.Logger,
		reg domain.ProviderRegistry,
		anthropicProvider *anthropic.Provider,
		openaiProvider *openai.Provider,
		openrouterProvider *openrouter.Provider,
	) error {
		ctx := context.Background()

		for _, provider := range []domain.Provider{
			anthropicProvider,
			openaiProvider,
			openrouterProvider,
		} {
			if err := reg.Register(ctx, provider); err != nil {
				return fmt.Errorf("failed to register provider %s: %w", provider.Name(), err)
			}
		}

		available := reg.Available(ctx)
		if len(available) == 0 {
			observability.Logger().Warn("no providers configured")
		}

		return nil
	}); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	// Response Cache
	if err := container.Provide(func(
		cacheCfg *config.CacheConfig,
		redisCfg *config.RedisConfig,
	) (domain.ResponseCache, error) {
		switch cacheCfg.Backend {
		case "redis":
			client := goredis.NewClient(&goredis.Options{
				Addr:     redisCfg.Addr,
				Password: redisCfg.Password,
				DB:       redisCfg.DB,
			})
			return rediscache.New(client), nil
		case "file":
			return file.New(cacheCfg.Dir)
		default:
			return nil, fmt.Errorf("unknown cache backend: %s", cacheCfg.Backend)
		}
	}); err != nil {
		log.Fatalf("Failed to provide response cache: %v", err)
	}

	// Routing
	if err := container.Provide(func(reg domain.ProviderRegistry) domain.Router {
		return routing.NewRouter(reg)
	}); err != nil {
		log.Fatalf("Failed to provide router: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewOrchestrator); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
