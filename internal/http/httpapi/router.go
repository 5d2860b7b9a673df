package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"promptline/internal/http/handlers"
	"promptline/internal/middleware"
)

// Options configures the middleware stack around the handlers.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	ComposeTimeout  time.Duration
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(opts.Logger),
		chimw.RealIP,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.AccessLog(opts.Logger),
		chimw.Recoverer,
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/aspect-ratios", app.AspectRatios)
		r.Post("/compile", app.Compile)
		r.Post("/parse", app.Parse)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			if opts.ComposeTimeout > 0 {
				r.Use(chimw.Timeout(opts.ComposeTimeout))
			}
			r.Post("/compose", app.Compose)
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", app.PresetsList)
			r.Post("/", app.PresetsCreate)
			r.Get("/export", app.PresetsExport)
			r.Get("/{id}", app.PresetsGet)
			r.Put("/{id}", app.PresetsUpdate)
			r.Delete("/{id}", app.PresetsDelete)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", app.PromptsList)
			r.Post("/", app.PromptsCreate)
			r.Get("/{id}", app.PromptsGet)
			r.Delete("/{id}", app.PromptsDelete)
		})
	})

	return r
}
