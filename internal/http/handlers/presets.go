package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptline/internal/domain"
	"promptline/internal/domain/jsoncfg"
	"promptline/internal/promptline"
	"promptline/pkg/zip"
)

type presetRequest struct {
	Name   string             `json:"name"`
	Prompt jsoncfg.PromptJSON `json:"prompt"`
}

type presetView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Prompt     jsoncfg.PromptJSON `json:"prompt"`
	PromptLine string             `json:"prompt_line"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (a *App) presetView(p domain.Preset) presetView {
	return presetView{
		ID:         p.ID,
		Name:       p.Name,
		Prompt:     jsoncfg.FromRecord(p.Record),
		PromptLine: promptline.CompileReconciled(p.Record, a.Options),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (a *App) PresetsList(w http.ResponseWriter, r *http.Request) {
	presets, err := a.Presets.List(r.Context())
	if err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	items := make([]presetView, 0, len(presets))
	for _, p := range presets {
		items = append(items, a.presetView(p))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) PresetsCreate(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if !a.decode(w, r, &req) {
		return
	}
	record, ok := a.record(w, req.Prompt)
	if !ok {
		return
	}
	preset := &domain.Preset{Name: req.Name, Record: record}
	if err := a.Presets.Create(r.Context(), preset); err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	a.json(w, http.StatusCreated, a.presetView(*preset))
}

func (a *App) PresetsGet(w http.ResponseWriter, r *http.Request) {
	preset, err := a.Presets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	a.json(w, http.StatusOK, a.presetView(*preset))
}

func (a *App) PresetsUpdate(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if !a.decode(w, r, &req) {
		return
	}
	record, ok := a.record(w, req.Prompt)
	if !ok {
		return
	}
	preset := &domain.Preset{ID: chi.URLParam(r, "id"), Name: req.Name, Record: record}
	if err := a.Presets.Update(r.Context(), preset); err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	a.json(w, http.StatusOK, a.presetView(*preset))
}

func (a *App) PresetsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Presets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PresetsExport streams every preset's compiled line as a zip of text files.
func (a *App) PresetsExport(w http.ResponseWriter, r *http.Request) {
	presets, err := a.Presets.List(r.Context())
	if err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	entries := make([]zip.Entry, 0, len(presets))
	for _, p := range presets {
		line := promptline.CompileReconciled(p.Record, a.Options)
		entries = append(entries, zip.Entry{
			Filename: zip.SafeName(p.Name, ".txt"),
			Data:     []byte(line + "\n"),
			Modified: p.UpdatedAt,
		})
	}
	data, err := zip.Archive(entries)
	if err != nil {
		a.domainError(w, r, err, "preset")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="presets-%s.zip"`, time.Now().UTC().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
