package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Composer
	OnFallback func(reason string, err error)
}

type GeminiComposer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	fallbackChain
}

const (
	geminiDefaultTimeout = 30 * time.Second
	defaultGeminiModel   = "gemini-1.5-flash"
)

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiComposer(opts GeminiOptions) (*GeminiComposer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiComposer{
		apiKey:        strings.TrimSpace(opts.APIKey),
		model:         model,
		baseURL:       baseURL,
		client:        client,
		fallbackChain: fallbackChain{next: opts.Fallback, onFallback: opts.OnFallback},
	}, nil
}

func (g *GeminiComposer) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	userMessage, err := buildUserMessage(req)
	if err != nil {
		return g.use(ctx, req, "encode_input", err)
	}
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemMessage}}},
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: userMessage}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      openAITemperature,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return g.use(ctx, req, "encode_request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return g.use(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.use(ctx, req, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.use(ctx, req, fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("gemini status %d", resp.StatusCode))
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return g.use(ctx, req, "decode_response", err)
	}
	text := extractGeminiText(out)
	if text == "" {
		return g.use(ctx, req, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelComposePayload](text)
	if err != nil {
		return g.use(ctx, req, "parse_payload", err)
	}
	res, err := resultFromPayload(parsed, GeminiProvider, req.Locale)
	if err != nil {
		return g.use(ctx, req, "empty_prompt_line", err)
	}
	res.Metadata["model"] = g.model
	return res, nil
}

func (g *GeminiComposer) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func extractGeminiText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

var _ Composer = (*GeminiComposer)(nil)
