package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"promptline/internal/infra"
	"promptline/internal/infra/credentials"
)

func main() {
	_ = godotenv.Load(".env", ".env.local")

	var (
		keyFlag      string
		providerFlag string
		deleteFlag   bool
	)
	flag.StringVar(&keyFlag, "key", "", "API key for the selected provider (falls back to the environment)")
	flag.StringVar(&providerFlag, "provider", credentials.ProviderOpenAI, "Compose provider to configure (openai or gemini)")
	flag.BoolVar(&deleteFlag, "delete", false, "Remove the stored key instead of setting it")
	flag.Parse()

	provider := strings.TrimSpace(strings.ToLower(providerFlag))
	switch provider {
	case credentials.ProviderGemini, credentials.ProviderOpenAI:
	case "":
		provider = credentials.ProviderOpenAI
	default:
		fmt.Fprintf(os.Stderr, "unsupported provider %q\n", providerFlag)
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", "apikey").Str("provider", provider).Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))

	if deleteFlag {
		deleted, err := store.DeleteToken(ctx, provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to delete %s api key: %v\n", provider, err)
			os.Exit(1)
		}
		if !deleted {
			fmt.Printf("no %s API key was stored\n", strings.ToUpper(provider))
			return
		}
		fmt.Printf("%s API key removed\n", strings.ToUpper(provider))
		return
	}

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		switch provider {
		case credentials.ProviderGemini:
			key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		default:
			key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
	}
	if key == "" {
		fmt.Fprintf(os.Stderr, "%s API key is required via -key or environment\n", strings.ToUpper(provider))
		os.Exit(1)
	}

	if err := store.SetToken(ctx, provider, key); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist %s api key: %v\n", provider, err)
		os.Exit(1)
	}

	fmt.Printf("%s API key stored successfully\n", strings.ToUpper(provider))
}
