package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry is a single file in an archive.
type Entry struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// Archive writes entries into an in-memory zip. Duplicate file names get a
// numeric suffix.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]int, len(entries))
	for _, entry := range entries {
		name := uniqueName(entry.Filename, seen)
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: entry.Modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zip %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SafeName turns a display name into an ASCII file name with ext appended.
// Accents are folded, anything else outside [a-z0-9-_] becomes a hyphen.
func SafeName(name, ext string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	base := strings.TrimSuffix(sb.String(), "-")
	if base == "" {
		base = "untitled"
	}
	return base + ext
}

func uniqueName(name string, seen map[string]int) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := ""
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name, ext = name[:idx], name[idx:]
	}
	return fmt.Sprintf("%s-%d%s", name, n+1, ext)
}
