package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"promptline/internal/infra"
	"promptline/internal/sqlinline"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Store keeps compose provider API keys in the integration_tokens table. The
// API falls back to it when the key is not configured in the environment.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, normalizeProvider(provider))
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken stores key for provider, replacing any previous value.
func (s *Store) SetToken(ctx context.Context, provider, key string) error {
	provider, err := supportedProvider(provider)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	return s.upsert(ctx, provider, key, map[string]any{"source": "cli"})
}

// DeleteToken removes the stored key for provider. It reports whether a key
// was stored.
func (s *Store) DeleteToken(ctx context.Context, provider string) (bool, error) {
	provider, err := supportedProvider(provider)
	if err != nil {
		return false, err
	}
	tag, err := s.sql.Exec(ctx, sqlinline.QDeleteIntegrationToken, provider)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Resolve returns configured when it is non-empty, otherwise the stored key.
func (s *Store) Resolve(ctx context.Context, provider, configured string) (string, error) {
	if v := strings.TrimSpace(configured); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

func normalizeProvider(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

func supportedProvider(p string) (string, error) {
	p = normalizeProvider(p)
	switch p {
	case ProviderOpenAI, ProviderGemini:
		return p, nil
	}
	return "", fmt.Errorf("unsupported provider %q", p)
}
