package compose

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"promptline/internal/promptline"
)

const (
	StaticProvider = "static"
	OpenAIProvider = "openai"
	GeminiProvider = "gemini"
)

const systemMessage = `You are an expert Midjourney prompt engineer. Turn a simple idea into a detailed, cinematic prompt line.

Structure the descriptive text as: character and action, environment with one bold geometric element (portal, disc, ring, monolith, pyramid), light behaviour with a warm and cool colour contrast, atmosphere (mist, fog, snow, diffusion), and a closing emotional cue.

Keep the composition minimal: a single subject, one geometric anchor, colour duality, soft atmosphere.

Syntax rules:
- Flag order is --ar, --stylize, --chaos, --raw, --profile, --sref, --sw, --seed.
- Use params values for ar, stylize and chaos; include --raw only when params.raw is true.
- Only include --sref when params.srefs has URLs, never more than params.max_srefs of them.
- Never use --sw unless --sref URLs are present.
- Strip URL query strings when params.strip_query is true.
- Use double hyphens and keep every line on one line.

Respond with JSON only:
{"prompt_line": string, "variants": [string, string], "notes": string}
Variants are alternative interpretations with a different mood, lighting or composition. Notes briefly explain the enhancements.`

type composeParams struct {
	AspectRatio string   `json:"ar"`
	Stylize     int      `json:"stylize"`
	Chaos       int      `json:"chaos"`
	Raw         bool     `json:"raw"`
	Seed        string   `json:"seed,omitempty"`
	Profiles    []string `json:"profiles"`
	Srefs       []string `json:"srefs"`
	StyleWeight *int     `json:"sw,omitempty"`
	StripQuery  bool     `json:"strip_query"`
	MaxSrefs    int      `json:"max_srefs"`
}

type composeInput struct {
	Idea         string        `json:"idea,omitempty"`
	Subject      string        `json:"subject"`
	Setting      string        `json:"setting"`
	Action       string        `json:"action"`
	Lighting     string        `json:"lighting"`
	ArtDirection string        `json:"art_direction"`
	Extras       string        `json:"extras"`
	Params       composeParams `json:"params"`
}

type modelComposePayload struct {
	PromptLine string   `json:"prompt_line"`
	Variants   []string `json:"variants"`
	Notes      string   `json:"notes"`
}

// buildComposeInput mirrors the record for the model. Style weight is left
// out entirely when there are no references so the model has nothing to echo.
func buildComposeInput(req ComposeRequest) composeInput {
	r := req.Record
	maxSrefs := req.MaxSrefs
	if maxSrefs <= 0 {
		maxSrefs = promptline.DefaultMaxSrefs
	}
	params := composeParams{
		AspectRatio: r.AspectRatio,
		Stylize:     r.Stylize,
		Chaos:       r.Chaos,
		Raw:         r.Raw,
		Seed:        strings.TrimSpace(r.Seed),
		Profiles:    nonBlank(r.ProfileIDs),
		Srefs:       nonBlank(r.StyleRefs),
		StripQuery:  r.StripQueryStrings,
		MaxSrefs:    maxSrefs,
	}
	if len(params.Srefs) > 0 && r.StyleWeight != nil {
		params.StyleWeight = promptline.IntPtr(*r.StyleWeight)
	}
	return composeInput{
		Idea:         strings.TrimSpace(req.Idea),
		Subject:      r.Subject,
		Setting:      r.Setting,
		Action:       r.Action,
		Lighting:     r.Lighting,
		ArtDirection: r.ArtDirection,
		Extras:       r.Extras,
		Params:       params,
	}
}

func buildUserMessage(req ComposeRequest) (string, error) {
	input := buildComposeInput(req)
	raw, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}
	sb := &strings.Builder{}
	sb.Write(raw)
	sb.WriteString("\n\nIMPORTANT: ")
	if len(input.Params.Srefs) > 0 {
		sb.WriteString("Style references are provided, you may use --sref and --sw.")
	} else {
		sb.WriteString("NO style references provided - do NOT use --sref or --sw flags.")
	}
	if req.Locale != "" {
		sb.WriteString(" Write descriptive text for locale '")
		sb.WriteString(req.Locale)
		sb.WriteString("'.")
	}
	return sb.String(), nil
}

func resultFromPayload(parsed modelComposePayload, provider, locale string) (*ComposeResult, error) {
	line := strings.TrimSpace(parsed.PromptLine)
	if line == "" {
		return nil, errors.New("empty prompt_line")
	}
	return &ComposeResult{
		PromptLine: line,
		Variants:   nonBlank(parsed.Variants),
		Notes:      strings.TrimSpace(parsed.Notes),
		Metadata:   ensureMetadata(nil, locale),
		Provider:   provider,
	}, nil
}

// fallbackChain hands a failed request to the next composer, the static one
// when none is configured, and records why.
type fallbackChain struct {
	next       Composer
	onFallback func(reason string, err error)
}

func (f fallbackChain) use(ctx context.Context, req ComposeRequest, reason string, cause error) (*ComposeResult, error) {
	if f.onFallback != nil {
		f.onFallback(reason, cause)
	}
	next := f.next
	if next == nil {
		next = NewStaticComposer()
	}
	res, err := next.Compose(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = StaticProvider
		}
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}
		if reason != "" {
			res.Metadata["fallback_reason"] = reason
		}
	}
	return res, err
}

func ensureMetadata(meta map[string]string, locale string) map[string]string {
	if meta == nil {
		meta = map[string]string{}
	}
	if locale != "" {
		meta["locale"] = locale
	}
	return meta
}

func nonBlank(values []string) []string {
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
