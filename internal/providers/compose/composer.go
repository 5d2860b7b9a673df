package compose

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"promptline/internal/promptline"
)

// ComposeRequest carries the structured record and the free-text intent sent
// to a generation provider.
type ComposeRequest struct {
	Idea     string
	Record   promptline.Record
	MaxSrefs int
	Locale   string
}

// ComposeResult is the raw provider output before reconciliation.
type ComposeResult struct {
	PromptLine string            `json:"prompt_line"`
	Variants   []string          `json:"variants"`
	Notes      string            `json:"notes"`
	Metadata   map[string]string `json:"metadata"`
	Provider   string            `json:"-"`
}

// Composer turns a record plus intent into one or more prompt lines.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error)
}

// StaticComposer composes offline from the cinematic vocabulary. Output is
// deterministic for a given request.
type StaticComposer struct{}

func NewStaticComposer() *StaticComposer {
	return &StaticComposer{}
}

func (s *StaticComposer) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := req.Record.Clone()
	idea := strings.TrimSpace(req.Idea)
	if strings.TrimSpace(r.Subject) == "" {
		r.Subject = idea
	} else {
		r.Extras = promptline.AppendPhrase(r.Extras, idea)
	}
	opts := promptline.Options{MaxSrefs: req.MaxSrefs}

	n := utf8.RuneCountInString(r.Subject)
	geometry := pick(promptline.Geometries, n)
	duality := pick(promptline.ColorDualities, n)
	atmosphere := pick(promptline.Atmospheres, n)
	emotion := pick(promptline.Emotions, n)

	cinematic := promptline.CinematicPreset(r)
	cinematic.Setting = promptline.AppendPhrase(cinematic.Setting, geometry)
	cinematic.Lighting = promptline.AppendPhrase(cinematic.Lighting, duality)

	moody := r.Clone()
	moody.Extras = promptline.AppendPhrase(moody.Extras, atmosphere)
	moody.Extras = promptline.AppendPhrase(moody.Extras, emotion)

	title := coalesce(r.Subject, "untitled idea")
	caser := cases.Title(language.Make(coalesce(req.Locale, "en")))
	return &ComposeResult{
		PromptLine: promptline.Compile(r, opts),
		Variants: []string{
			promptline.Compile(cinematic, opts),
			promptline.Compile(moody, opts),
		},
		Notes:    fmt.Sprintf("%s composed offline; variants add %s with %s, and %s.", caser.String(title), geometry, duality, atmosphere),
		Metadata: ensureMetadata(nil, req.Locale),
		Provider: StaticProvider,
	}, nil
}

func pick(list []string, n int) string {
	if len(list) == 0 {
		return ""
	}
	return list[n%len(list)]
}

var _ Composer = (*StaticComposer)(nil)
