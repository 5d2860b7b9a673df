package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"promptline/internal/adapter/repo"
	"promptline/internal/http/handlers"
	httpapi "promptline/internal/http/httpapi"
	"promptline/internal/infra"
	"promptline/internal/infra/credentials"
	"promptline/internal/infra/geoip"
	"promptline/internal/providers/compose"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	store := credentials.NewStore(runner)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip disabled")
	}
	defer func() {
		_ = resolver.Close()
	}()

	opts := cfg.PromptOptions()
	composer := newComposer(ctx, cfg, store, logger)
	app := handlers.NewApp(
		repo.NewPresetRepository(runner),
		repo.NewPromptRepository(runner),
		compose.NewPipeline(composer, opts),
		opts,
		logger,
	)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		ComposeTimeout:  cfg.HTTPWriteTimeout - 5*time.Second,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("compose_provider", cfg.ComposeProvider).Int("max_srefs", opts.MaxSrefs).Msg("starting api")
	if err := infra.Serve(ctx, server, cfg.HTTPIdleTimeout, logger); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
}

// newComposer builds the configured provider. Remote providers fall back to
// the static composer; a missing key selects the static composer outright.
func newComposer(ctx context.Context, cfg *infra.Config, store *credentials.Store, logger infra.Logger) compose.Composer {
	onFallback := func(provider string) func(string, error) {
		return func(reason string, err error) {
			logger.Warn().Err(err).Str("provider", provider).Str("reason", reason).Msg("compose fallback")
		}
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.ComposeProvider {
	case compose.OpenAIProvider:
		key, err := store.Resolve(lookupCtx, credentials.ProviderOpenAI, cfg.OpenAIAPIKey)
		if err != nil {
			logger.Warn().Err(err).Msg("openai key lookup failed")
		}
		c, err := compose.NewOpenAIComposer(compose.OpenAIOptions{
			APIKey:       key,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			OnFallback:   onFallback(compose.OpenAIProvider),
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model adjusted")
			},
		})
		if err == nil {
			return c
		}
		logger.Warn().Err(err).Msg("openai composer unavailable, using static")
	case compose.GeminiProvider:
		key, err := store.Resolve(lookupCtx, credentials.ProviderGemini, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini key lookup failed")
		}
		c, err := compose.NewGeminiComposer(compose.GeminiOptions{
			APIKey:     key,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			OnFallback: onFallback(compose.GeminiProvider),
		})
		if err == nil {
			return c
		}
		logger.Warn().Err(err).Msg("gemini composer unavailable, using static")
	}
	return compose.NewStaticComposer()
}
