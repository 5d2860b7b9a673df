package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"promptline/internal/infra"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	logger := infra.NewLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")).With().Str("cmd", "migrate").Logger()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.Migrate(ctx, dbURL, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
}
