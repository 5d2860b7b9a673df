package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"promptline/internal/promptline"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	GeoIPDBPath        string
	DefaultLocale      string
	CORSAllowedOrigins []string
	ComposeProvider    string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	PromptMaxSrefs     int
	PromptDefaultStyle int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		ComposeProvider:    strings.ToLower(getEnv("COMPOSE_PROVIDER", "openai")),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		PromptMaxSrefs:     getEnvInt("PROMPT_MAX_SREFS", 3),
		PromptDefaultStyle: getEnvInt("PROMPT_DEFAULT_STYLIZE", 100),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.ComposeProvider {
	case "openai", "gemini", "static":
	default:
		return nil, fmt.Errorf("COMPOSE_PROVIDER must be one of openai, gemini, static; got %q", cfg.ComposeProvider)
	}

	if cfg.PromptMaxSrefs <= 0 {
		return nil, fmt.Errorf("PROMPT_MAX_SREFS must be positive")
	}

	return cfg, nil
}

// PromptOptions returns the compile policy configured for this deployment.
func (c *Config) PromptOptions() promptline.Options {
	return promptline.Options{MaxSrefs: c.PromptMaxSrefs, DefaultStylize: c.PromptDefaultStyle}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
