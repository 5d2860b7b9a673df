package promptline

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	dashReplacer = strings.NewReplacer("–", "--", "—", "--")
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	defaultPorts = map[string]string{"http": "80", "https": "443"}
)

// Sanitize replaces en and em dashes with a double hyphen, collapses runs of
// whitespace into a single space and trims the ends.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(dashReplacer.Replace(s)), " ")
}

// CleanURL reduces an absolute URL to scheme, host and path when strip is set,
// dropping a port that is the scheme's default. Anything that does not parse
// as an absolute URL, including bad percent escapes, is returned unchanged.
func CleanURL(raw string, strip bool) string {
	if !strip || raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if port := defaultPorts[scheme]; port != "" && u.Port() == port {
		host = strings.TrimSuffix(host, ":"+port)
	}
	path := u.EscapedPath()
	if path == "" && (scheme == "http" || scheme == "https") {
		path = "/"
	}
	return scheme + "://" + host + path
}

// StripURLQueries rewrites every http(s) URL embedded in line through CleanURL.
func StripURLQueries(line string) string {
	return urlPattern.ReplaceAllStringFunc(line, func(match string) string {
		return CleanURL(match, true)
	})
}

// Reconcile drops every --sw, with its numeric value, when the line carries no
// style references and removes any --sref left without a value. Text glued to
// a dropped number ("650,") is kept. The result is sanitized.
func Reconcile(line string, hasRefs bool) string {
	tokens := strings.Fields(dashReplacer.Replace(line))
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case flagStyleWeight:
			if hasRefs {
				break
			}
			if i+1 < len(tokens) {
				if n, rest := leadingInt(tokens[i+1]); n != "" {
					i++
					if rest != "" {
						out = append(out, rest)
					}
				}
			}
			continue
		case flagStyleRef:
			if i+1 == len(tokens) || isFlag(tokens[i+1]) {
				continue
			}
		}
		out = append(out, tok)
	}
	return Sanitize(strings.Join(out, " "))
}

// TokenStats summarises a line for the live preview.
type TokenStats struct {
	Words int `json:"words"`
	Chars int `json:"chars"`
}

// CountTokens counts whitespace separated words and characters in line.
func CountTokens(line string) TokenStats {
	return TokenStats{
		Words: len(strings.Fields(line)),
		Chars: len([]rune(line)),
	}
}
