package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Fallback     Composer
	OnFallback   func(reason string, err error)
	OnWarning    func(reason, detail string)
}

type OpenAIComposer struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	fallbackChain
}

const (
	openAIDefaultTimeout = 30 * time.Second
	openAITemperature    = 0.7
	defaultOpenAIModel   = "gpt-4o"
)

var openAIModelCanonical = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

var openAIModelAliases = map[string]string{
	"gpt4o":                  "gpt-4o",
	"gpt-4-o":                "gpt-4o",
	"gpt-4o-latest":          "gpt-4o",
	"chatgpt-4o-latest":      "gpt-4o",
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIComposer(opts OpenAIOptions) (*OpenAIComposer, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelInput := strings.TrimSpace(opts.Model)
	model, reason := normalizeOpenAIModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", coalesce(modelInput, defaultOpenAIModel), model))
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIComposer{
		apiKey:        strings.TrimSpace(opts.APIKey),
		model:         model,
		baseURL:       baseURL,
		organization:  strings.TrimSpace(opts.Organization),
		client:        client,
		fallbackChain: fallbackChain{next: opts.Fallback, onFallback: opts.OnFallback},
	}, nil
}

func (o *OpenAIComposer) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	userMessage, err := buildUserMessage(req)
	if err != nil {
		return o.use(ctx, req, "encode_input", err)
	}
	payload := openAIChatRequest{
		Model:          o.model,
		Temperature:    openAITemperature,
		ResponseFormat: &openAIFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userMessage},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return o.use(ctx, req, "encode_request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return o.use(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return o.use(ctx, req, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return o.use(ctx, req, fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("openai status %d", resp.StatusCode))
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return o.use(ctx, req, "decode_response", err)
	}
	if len(out.Choices) == 0 {
		return o.use(ctx, req, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return o.use(ctx, req, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelComposePayload](text)
	if err != nil {
		return o.use(ctx, req, "parse_payload", err)
	}
	res, err := resultFromPayload(parsed, OpenAIProvider, req.Locale)
	if err != nil {
		return o.use(ctx, req, "empty_prompt_line", err)
	}
	res.Metadata["model"] = o.model
	return res, nil
}

var _ Composer = (*OpenAIComposer)(nil)

func normalizeOpenAIModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultOpenAIModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := openAIModelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := openAIModelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultOpenAIModel, "defaulted"
}
