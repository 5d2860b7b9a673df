package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"promptline/internal/domain"
	"promptline/internal/middleware"
	"promptline/internal/promptline"
	"promptline/internal/providers/compose"
)

const maxBodyBytes = 1 << 20

// App holds the dependencies shared by the HTTP handlers.
type App struct {
	Presets  domain.PresetRepository
	Prompts  domain.PromptRepository
	Pipeline *compose.Pipeline
	Options  promptline.Options
	Logger   zerolog.Logger
}

func NewApp(presets domain.PresetRepository, prompts domain.PromptRepository, pipeline *compose.Pipeline, opts promptline.Options, logger zerolog.Logger) *App {
	return &App{
		Presets:  presets,
		Prompts:  prompts,
		Pipeline: pipeline,
		Options:  opts,
		Logger:   logger,
	}
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	var body errorBody
	body.Error.Code = errCode
	body.Error.Message = message
	a.json(w, code, body)
}

// decode reads a JSON body into v, rejecting unknown fields and oversized bodies.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// domainError maps repository and provider errors onto HTTP responses.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidPreset), errors.Is(err, domain.ErrInvalidPrompt):
		a.error(w, http.StatusBadRequest, "invalid_"+what, err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		middleware.LoggerFrom(r.Context(), a.Logger).Warn().Err(err).Str("path", r.URL.Path).Msg("provider failure")
		a.error(w, http.StatusBadGateway, "provider_failure", "prompt composition failed")
	default:
		middleware.LoggerFrom(r.Context(), a.Logger).Error().Err(err).Str("path", r.URL.Path).Msg(what + " request failed")
		// the id lets a client report the failure against the server log
		var body errorBody
		body.Error.Code = "internal"
		body.Error.Message = "unexpected error"
		body.Error.RequestID = middleware.RequestIDFromContext(r.Context())
		a.json(w, http.StatusInternalServerError, body)
	}
}
