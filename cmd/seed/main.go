package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"promptline/internal/adapter/repo"
	"promptline/internal/domain"
	"promptline/internal/infra"
	"promptline/internal/presetfile"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	var file string
	flag.StringVar(&file, "file", "", "HCL preset file to seed instead of the built-in presets")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel).With().Str("cmd", "seed").Logger()

	presets := domain.DefaultPresets()
	if file != "" {
		presets, err = presetfile.Load(file)
		if err != nil {
			logger.Fatal().Err(err).Str("file", file).Msg("load presets")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer pool.Close()

	presetRepo := repo.NewPresetRepository(infra.NewSQLRunner(pool, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range presets {
		p := &presets[i]
		g.Go(func() error {
			if err := presetRepo.Upsert(gctx, p); err != nil {
				return err
			}
			logger.Info().Str("preset", p.Name).Str("id", p.ID).Msg("preset seeded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
	logger.Info().Int("count", len(presets)).Msg("seed complete")
}
