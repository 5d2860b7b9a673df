package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// AccessLog writes one line per request through the request logger. 5xx
// responses log at error level and 4xx at warn.
func AccessLog(fallback zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger := LoggerFrom(r.Context(), fallback)
			var evt *zerolog.Event
			switch {
			case rec.status >= http.StatusInternalServerError:
				evt = logger.Error()
			case rec.status >= http.StatusBadRequest:
				evt = logger.Warn()
			default:
				evt = logger.Info()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int("bytes", rec.bytes).
				Str("locale", LocaleFromContext(r.Context())).
				Str("country", CountryFromContext(r.Context())).
				Dur("took", time.Since(start)).
				Msg("request")
		})
	}
}
