package handlers

import (
	"net/http"
	"strings"

	"promptline/internal/domain/jsoncfg"
	"promptline/internal/middleware"
	"promptline/internal/promptline"
)

type compileResponse struct {
	PromptLine string `json:"prompt_line"`
	Words      int    `json:"words"`
	Chars      int    `json:"chars"`
}

type parseRequest struct {
	Line     string              `json:"line"`
	Fallback *jsoncfg.PromptJSON `json:"fallback"`
}

type composeRequest struct {
	Idea   string             `json:"idea"`
	Prompt jsoncfg.PromptJSON `json:"prompt"`
}

type composeOption struct {
	PromptLine string             `json:"prompt_line"`
	Parsed     jsoncfg.PromptJSON `json:"parsed"`
	Words      int                `json:"words"`
}

type composeResponse struct {
	Options  []composeOption   `json:"options"`
	Notes    string            `json:"notes"`
	Provider string            `json:"provider"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Compile renders a prompt into its reconciled command line.
func (a *App) Compile(w http.ResponseWriter, r *http.Request) {
	var req jsoncfg.PromptJSON
	if !a.decode(w, r, &req) {
		return
	}
	record, ok := a.record(w, req)
	if !ok {
		return
	}
	line := promptline.CompileReconciled(record, a.Options)
	stats := promptline.CountTokens(line)
	a.json(w, http.StatusOK, compileResponse{PromptLine: line, Words: stats.Words, Chars: stats.Chars})
}

// Parse recovers a prompt from a command line. Parameters absent from the line
// come from the fallback, or the editor defaults when none is sent.
func (a *App) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !a.decode(w, r, &req) {
		return
	}
	fallback := jsoncfg.PromptJSON{}
	if req.Fallback != nil {
		fallback = *req.Fallback
	}
	record, ok := a.record(w, fallback)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, jsoncfg.FromRecord(promptline.Parse(req.Line, record)))
}

// Compose asks the configured provider for prompt lines and returns them
// reconciled and parsed back into prompts.
func (a *App) Compose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Idea) == "" && strings.TrimSpace(req.Prompt.Subject) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "idea or subject is required")
		return
	}
	record, ok := a.record(w, req.Prompt)
	if !ok {
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	out, err := a.Pipeline.Run(r.Context(), req.Idea, record, locale)
	if err != nil {
		a.domainError(w, r, err, "compose")
		return
	}
	if reason := out.Metadata["fallback_reason"]; reason != "" {
		middleware.LoggerFrom(r.Context(), a.Logger).Warn().
			Str("provider", out.Provider).
			Str("reason", reason).
			Int("options", len(out.Options)).
			Msg("compose served by fallback")
	}
	resp := composeResponse{Notes: out.Notes, Provider: out.Provider, Metadata: out.Metadata}
	for _, opt := range out.Options {
		resp.Options = append(resp.Options, composeOption{
			PromptLine: opt.PromptLine,
			Parsed:     jsoncfg.FromRecord(opt.Parsed),
			Words:      promptline.CountTokens(opt.PromptLine).Words,
		})
	}
	a.json(w, http.StatusOK, resp)
}

// record validates p, fills editor defaults and converts it.
func (a *App) record(w http.ResponseWriter, p jsoncfg.PromptJSON) (promptline.Record, bool) {
	if err := p.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_prompt", err.Error())
		return promptline.Record{}, false
	}
	p.Normalize()
	return p.ToRecord(), true
}
