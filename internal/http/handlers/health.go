package handlers

import (
	"net/http"

	"promptline/internal/domain/jsoncfg"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) AspectRatios(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"items":   jsoncfg.AspectRatios,
		"default": jsoncfg.DefaultAspectRatio,
	})
}
