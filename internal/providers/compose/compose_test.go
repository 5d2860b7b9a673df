package compose

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptline/internal/promptline"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type fakeComposer struct {
	compose func(context.Context, ComposeRequest) (*ComposeResult, error)
}

func (f fakeComposer) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	if f.compose != nil {
		return f.compose(ctx, req)
	}
	return nil, errors.New("compose not implemented")
}

func climberRequest() ComposeRequest {
	r := promptline.NewRecord()
	r.Subject = "climber"
	r.AspectRatio = "3:2"
	r.Stylize = 700
	r.StyleWeight = promptline.IntPtr(650)
	return ComposeRequest{Idea: "a climber at dawn", Record: r, Locale: "en"}
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestOpenAIComposerRequestAndResult(t *testing.T) {
	var got openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		content, _ := json.Marshal(modelComposePayload{
			PromptLine: "lone climber, circular portal --ar 3:2 --stylize 700",
			Variants:   []string{"climber in fog --ar 3:2", "  "},
			Notes:      "added geometry",
		})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "```json\n" + string(content) + "\n```"}}},
		})
	}))
	defer srv.Close()

	composer, err := NewOpenAIComposer(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAIComposer returned error: %v", err)
	}
	res, err := composer.Compose(context.Background(), climberRequest())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}

	if got.Model != "gpt-4o" || got.Temperature != 0.7 || got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	user := got.Messages[1].Content
	if strings.Contains(user, `"sw"`) {
		t.Fatalf("user message carries style weight without references: %s", user)
	}
	if !strings.Contains(user, "do NOT use --sref or --sw") {
		t.Fatalf("user message misses the reference warning: %s", user)
	}

	if res.Provider != OpenAIProvider {
		t.Fatalf("Provider = %q, want %q", res.Provider, OpenAIProvider)
	}
	if res.PromptLine != "lone climber, circular portal --ar 3:2 --stylize 700" {
		t.Fatalf("PromptLine = %q", res.PromptLine)
	}
	if len(res.Variants) != 1 || res.Notes != "added geometry" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Metadata["model"] != "gpt-4o" || res.Metadata["locale"] != "en" {
		t.Fatalf("unexpected metadata %v", res.Metadata)
	}
}

func TestOpenAIComposerFallbackMetadata(t *testing.T) {
	tests := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name:   "transport error",
			rt:     func(*http.Request) (*http.Response, error) { return nil, errors.New("boom") },
			reason: "http_request",
		},
		{
			name: "bad status",
			rt: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader("{}"))}, nil
			},
			reason: "http_429",
		},
		{
			name:   "no choices",
			rt:     func(*http.Request) (*http.Response, error) { return jsonResponse(`{"choices":[]}`), nil },
			reason: "empty_choices",
		},
		{
			name: "missing prompt line",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(`{"choices":[{"message":{"content":"{\"notes\":\"n\"}"}}]}`), nil
			},
			reason: "empty_prompt_line",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var captured string
			composer, err := NewOpenAIComposer(OpenAIOptions{
				APIKey:     "dummy",
				HTTPClient: &http.Client{Transport: tc.rt},
				OnFallback: func(reason string, err error) { captured = reason },
			})
			if err != nil {
				t.Fatalf("NewOpenAIComposer returned error: %v", err)
			}
			res, err := composer.Compose(context.Background(), climberRequest())
			if err != nil {
				t.Fatalf("Compose returned error: %v", err)
			}
			if res.Provider != StaticProvider {
				t.Fatalf("Provider = %q, want %q", res.Provider, StaticProvider)
			}
			if res.Metadata["fallback_reason"] != tc.reason || captured != tc.reason {
				t.Fatalf("fallback_reason = %q, captured = %q, want %q", res.Metadata["fallback_reason"], captured, tc.reason)
			}
		})
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input  string
		model  string
		reason string
	}{
		{input: "", model: "gpt-4o", reason: ""},
		{input: "gpt-4o", model: "gpt-4o", reason: ""},
		{input: "GPT 4o Mini", model: "gpt-4o-mini", reason: ""},
		{input: "gpt4o", model: "gpt-4o", reason: "alias"},
		{input: "gpt-3.5-turbo", model: "gpt-4o", reason: "defaulted"},
	}
	for _, tc := range cases {
		model, reason := normalizeOpenAIModel(tc.input)
		if model != tc.model || reason != tc.reason {
			t.Fatalf("normalizeOpenAIModel(%q) = %q/%q, want %q/%q", tc.input, model, reason, tc.model, tc.reason)
		}
	}
}

func TestGeminiComposerParsesCandidate(t *testing.T) {
	var gotPath, gotKey string
	var body geminiRequest
	composer, err := NewGeminiComposer(GeminiOptions{
		APIKey: "g-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-goog-api-key")
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				return nil, err
			}
			return jsonResponse(`{"candidates":[{"content":{"parts":[{"text":"{\"prompt_line\":\"hero --ar 1:1\",\"variants\":[\"hero at night\"],\"notes\":\"ok\"}"}]}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiComposer returned error: %v", err)
	}
	res, err := composer.Compose(context.Background(), climberRequest())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" || gotKey != "g-key" {
		t.Fatalf("path = %q key = %q", gotPath, gotKey)
	}
	if body.SystemInstruction == nil || body.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("unexpected request %+v", body)
	}
	if res.Provider != GeminiProvider || res.PromptLine != "hero --ar 1:1" || len(res.Variants) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestGeminiComposerFallsBackToChainedProvider(t *testing.T) {
	fallback := fakeComposer{
		compose: func(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
			return &ComposeResult{PromptLine: "x", Provider: OpenAIProvider}, nil
		},
	}
	composer, err := NewGeminiComposer(GeminiOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(`{"candidates":[]}`), nil
		})},
		Fallback: fallback,
	})
	if err != nil {
		t.Fatalf("NewGeminiComposer returned error: %v", err)
	}
	res, err := composer.Compose(context.Background(), climberRequest())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if res.Provider != OpenAIProvider {
		t.Fatalf("Provider = %q, want %q", res.Provider, OpenAIProvider)
	}
	if res.Metadata["fallback_reason"] != "empty_response" {
		t.Fatalf("fallback_reason = %q", res.Metadata["fallback_reason"])
	}
}

func TestNewComposersRequireKey(t *testing.T) {
	if _, err := NewOpenAIComposer(OpenAIOptions{APIKey: " "}); err == nil {
		t.Fatal("expected error for missing openai key")
	}
	if _, err := NewGeminiComposer(GeminiOptions{}); err == nil {
		t.Fatal("expected error for missing gemini key")
	}
}

func TestStaticComposerIsDeterministic(t *testing.T) {
	composer := NewStaticComposer()
	req := climberRequest()
	first, err := composer.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	second, _ := composer.Compose(context.Background(), req)
	if first.PromptLine != second.PromptLine || first.Notes != second.Notes {
		t.Fatal("static composition is not deterministic")
	}
	if first.PromptLine != "climber, a climber at dawn --ar 3:2 --stylize 700 --sw 650" {
		t.Fatalf("PromptLine = %q", first.PromptLine)
	}
	if len(first.Variants) != 2 || !strings.Contains(first.Variants[0], "--chaos 55 --raw") {
		t.Fatalf("Variants = %v", first.Variants)
	}
	if !strings.HasPrefix(first.Notes, "Climber") {
		t.Fatalf("Notes = %q", first.Notes)
	}
	if req.Record.Extras != "" {
		t.Fatal("Compose modified the request record")
	}
}

func TestStaticComposerUsesIdeaAsSubject(t *testing.T) {
	res, err := NewStaticComposer().Compose(context.Background(), ComposeRequest{Idea: "  glass city ", Record: promptline.NewRecord()})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if res.PromptLine != "glass city" {
		t.Fatalf("PromptLine = %q", res.PromptLine)
	}
}

func TestStaticComposerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStaticComposer().Compose(ctx, climberRequest()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "Sure! here it is: {\"a\":1} hope it helps", want: `{"a":1}`},
	}
	for _, tc := range tests {
		if got := extractJSONFragment(tc.in); got != tc.want {
			t.Fatalf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildComposeInputKeepsStyleWeightWithRefs(t *testing.T) {
	req := climberRequest()
	req.Record.StyleRefs = []string{" ", "https://s.mj.run/a"}
	in := buildComposeInput(req)
	if in.Params.StyleWeight == nil || *in.Params.StyleWeight != 650 {
		t.Fatalf("StyleWeight = %v, want 650", in.Params.StyleWeight)
	}
	if len(in.Params.Srefs) != 1 || in.Params.MaxSrefs != promptline.DefaultMaxSrefs {
		t.Fatalf("unexpected params %+v", in.Params)
	}
}
