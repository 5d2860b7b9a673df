package infra

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("COMPOSE_PROVIDER", "")
	t.Setenv("PROMPT_MAX_SREFS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.ComposeProvider != "openai" {
		t.Fatalf("ComposeProvider = %q, want %q", cfg.ComposeProvider, "openai")
	}
	if cfg.PromptMaxSrefs != 3 {
		t.Fatalf("PromptMaxSrefs = %d, want 3", cfg.PromptMaxSrefs)
	}
	if cfg.PromptDefaultStyle != 100 {
		t.Fatalf("PromptDefaultStyle = %d, want 100", cfg.PromptDefaultStyle)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPOSE_PROVIDER", "midjourney")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfigParsesOriginsAndLimits(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("COMPOSE_PROVIDER", "Gemini")
	t.Setenv("PROMPT_MAX_SREFS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ComposeProvider != "gemini" {
		t.Fatalf("ComposeProvider = %q, want %q", cfg.ComposeProvider, "gemini")
	}
	if cfg.PromptMaxSrefs != 5 {
		t.Fatalf("PromptMaxSrefs = %d, want 5", cfg.PromptMaxSrefs)
	}
	expected := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}
