package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Resolver maps client IPs to ISO country codes using a MaxMind GeoIP2
// database. Results are memoised per IP; the locale middleware asks for the
// same address on every request of a session.
type Resolver struct {
	reader *geoip2.Reader

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver opens the GeoIP database at path. An empty path yields a nil
// resolver, which callers treat as "no geo lookup".
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader, cache: make(map[string]string)}, nil
}

// CountryCode returns the ISO country code for the provided IP.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	key := parsed.String()
	r.mu.RLock()
	code, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return code, nil
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record != nil {
		code = record.Country.IsoCode
	}
	r.mu.Lock()
	r.cache[key] = code
	r.mu.Unlock()
	return code, nil
}

// Lookup returns CountryCode as a plain function, or nil when r is nil so the
// middleware can skip the lookup entirely.
func (r *Resolver) Lookup() func(ip string) (string, error) {
	if r == nil {
		return nil
	}
	return r.CountryCode
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
