package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, X-Locale, X-Request-ID"
	corsExposeHeaders = "X-Request-ID, Content-Disposition, Content-Language, Retry-After"
	corsMaxAge        = 10 * time.Minute
)

// originMatcher holds exact origins plus "scheme://*.domain" patterns.
type originMatcher struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginMatcher(origins []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		switch {
		case origin == "":
		case origin == "*":
			m.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://*")
			m.suffixes = append(m.suffixes, scheme+"://|"+host)
		default:
			m.exact[origin] = struct{}{}
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if m.any {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, s := range m.suffixes {
		scheme, domain, _ := strings.Cut(s, "|")
		rest, ok := strings.CutPrefix(origin, scheme)
		if !ok {
			continue
		}
		if len(rest) > len(domain) && strings.HasSuffix(rest, domain) && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}

// CORS grants the configured origins. Entries are exact origins, "*" for any
// origin, or "https://*.example.com" for every subdomain. Preflight requests
// are answered here and never reach the router.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	match := newOriginMatcher(allowedOrigins)
	maxAge := strconv.Itoa(int(corsMaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			h := w.Header()
			if origin != "" {
				h.Add("Vary", "Origin")
			}
			if origin != "" && match.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				if preflight {
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
