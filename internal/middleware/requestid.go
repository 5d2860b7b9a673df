package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type requestIDContextKey struct{}

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a uuid, reusing a well-formed incoming
// X-Request-ID. The id is echoed in the response and carried by a request
// scoped logger that zerolog.Ctx returns downstream.
func RequestID(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(rid); err != nil {
				rid = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, rid)

			logger := base.With().Str("request_id", rid).Logger()
			ctx := context.WithValue(r.Context(), requestIDContextKey{}, rid)
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDContextKey{}).(string)
	return rid
}

// LoggerFrom returns the request logger stored in ctx, or fallback when the
// request did not pass through RequestID.
func LoggerFrom(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
