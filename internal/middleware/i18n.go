package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

// SupportedLocales are the locales handed to generation providers. The first
// entry is the fallback.
var SupportedLocales = []language.Tag{
	language.English,
	language.Indonesian,
	language.Spanish,
	language.French,
	language.German,
	language.Portuguese,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(SupportedLocales)

// countryHeaders are set by CDNs and load balancers in front of the API.
var countryHeaders = []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the negotiated locale and the client country in the request
// context and answers with Content-Language.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := normalizeLocale(defaultLocale)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := negotiateLocale(r, country, fallback)

			ctx := context.WithValue(r.Context(), localeContextKey{}, locale)
			if country != "" {
				ctx = context.WithValue(ctx, countryContextKey{}, country)
			}
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// negotiateLocale tries X-Locale, Accept-Language and the country's main
// language in that order.
func negotiateLocale(r *http.Request, country, fallback string) string {
	sources := []func() []language.Tag{
		func() []language.Tag {
			tag, err := language.Parse(strings.TrimSpace(r.Header.Get("X-Locale")))
			if err != nil {
				return nil
			}
			return []language.Tag{tag}
		},
		func() []language.Tag {
			tags, _, _ := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
			return tags
		},
		func() []language.Tag {
			if country == "" {
				return nil
			}
			tag, err := language.Parse("und-" + country)
			if err != nil {
				return nil
			}
			base, _ := tag.Base()
			return []language.Tag{language.Make(base.String())}
		},
	}
	for _, source := range sources {
		if tags := source(); len(tags) > 0 {
			if locale, ok := matchLocale(tags...); ok {
				return locale
			}
		}
	}
	if fallback == "" {
		return "en"
	}
	return fallback
}

func matchLocale(tags ...language.Tag) (string, bool) {
	tag, _, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	base, _ := tag.Base()
	return base.String(), true
}

func normalizeLocale(locale string) string {
	if tag, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		if v, ok := matchLocale(tag); ok {
			return v
		}
	}
	return "en"
}

// ClientIP returns the first valid X-Forwarded-For entry, else the remote
// host.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeContextKey{}).(string); ok {
		return v
	}
	return "en"
}

func CountryFromContext(ctx context.Context) string {
	v, _ := ctx.Value(countryContextKey{}).(string)
	return v
}

// ResolveCountry returns an upper-case ISO country code for r, or "". Edge
// headers win, then a region spelled out in the locale headers, then lookup
// on the client IP.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range countryHeaders {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	for _, header := range []string{"X-Locale", "Accept-Language"} {
		if region := explicitRegion(r.Header.Get(header)); region != "" {
			return region
		}
	}
	if lookup == nil {
		return ""
	}
	ip := ClientIP(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

// explicitRegion ignores regions the language package only infers.
func explicitRegion(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}
