package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptline/internal/domain"
	"promptline/internal/domain/jsoncfg"
	"promptline/internal/promptline"
)

type savedPromptRequest struct {
	Name   string             `json:"name"`
	Prompt jsoncfg.PromptJSON `json:"prompt"`
}

type savedPromptView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Prompt     jsoncfg.PromptJSON `json:"prompt"`
	PromptLine string             `json:"prompt_line"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func toSavedPromptView(p domain.SavedPrompt) savedPromptView {
	return savedPromptView{
		ID:         p.ID,
		Name:       p.DisplayName(),
		Prompt:     jsoncfg.FromRecord(p.Record),
		PromptLine: p.PromptLine,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (a *App) PromptsList(w http.ResponseWriter, r *http.Request) {
	prompts, err := a.Prompts.List(r.Context())
	if err != nil {
		a.domainError(w, r, err, "prompt")
		return
	}
	items := make([]savedPromptView, 0, len(prompts))
	for _, p := range prompts {
		items = append(items, toSavedPromptView(p))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// PromptsCreate stores the prompt together with its compiled line so the list
// view never has to recompile.
func (a *App) PromptsCreate(w http.ResponseWriter, r *http.Request) {
	var req savedPromptRequest
	if !a.decode(w, r, &req) {
		return
	}
	record, ok := a.record(w, req.Prompt)
	if !ok {
		return
	}
	prompt := &domain.SavedPrompt{
		Name:       req.Name,
		Record:     record,
		PromptLine: promptline.CompileReconciled(record, a.Options),
	}
	if err := a.Prompts.Create(r.Context(), prompt); err != nil {
		a.domainError(w, r, err, "prompt")
		return
	}
	a.json(w, http.StatusCreated, toSavedPromptView(*prompt))
}

func (a *App) PromptsGet(w http.ResponseWriter, r *http.Request) {
	prompt, err := a.Prompts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, r, err, "prompt")
		return
	}
	a.json(w, http.StatusOK, toSavedPromptView(*prompt))
}

func (a *App) PromptsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Prompts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, r, err, "prompt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
