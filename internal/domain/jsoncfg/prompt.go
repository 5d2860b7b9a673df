package jsoncfg

import (
	"fmt"
	"strconv"
	"strings"

	"promptline/internal/promptline"
)

// PromptJSON is the wire form of a prompt record used by the HTTP API and
// persisted as-is for presets and saved prompts.
type PromptJSON struct {
	Subject           string   `json:"subject"`
	Setting           string   `json:"setting"`
	Action            string   `json:"action"`
	Lighting          string   `json:"lighting"`
	ArtDirection      string   `json:"art_direction"`
	Extras            string   `json:"extras"`
	AspectRatio       string   `json:"aspect_ratio"`
	Stylize           *int     `json:"stylize"`
	Chaos             *int     `json:"chaos"`
	Raw               bool     `json:"raw"`
	StyleWeight       *int     `json:"style_weight,omitempty"`
	Seed              string   `json:"seed,omitempty"`
	StripQueryStrings *bool    `json:"strip_query_strings"`
	StyleRefs         []string `json:"style_refs"`
	ProfileIDs        []string `json:"profile_ids"`
}

// AspectRatio is an aspect ratio offered to users.
type AspectRatio struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AspectRatios lists the aspect ratios offered by the editor. Other W:H values
// are still accepted.
var AspectRatios = []AspectRatio{
	{Value: "1:1", Label: "1:1 (Square)"},
	{Value: "3:2", Label: "3:2"},
	{Value: "2:3", Label: "2:3"},
	{Value: "4:3", Label: "4:3"},
	{Value: "3:4", Label: "3:4"},
	{Value: "16:9", Label: "16:9 (Wide)"},
	{Value: "9:16", Label: "9:16 (Tall)"},
	{Value: "21:9", Label: "21:9 (Ultrawide)"},
}

const (
	// DefaultAspectRatio is applied when the request omits the aspect ratio.
	DefaultAspectRatio = "16:9"
	// DefaultStylize is the editor's starting stylize value.
	DefaultStylize = 700
	// DefaultChaos is the editor's starting chaos value.
	DefaultChaos = 0
	// DefaultStyleWeight is the editor's starting style weight.
	DefaultStyleWeight = 100
	// DefaultStripQueryStrings controls query stripping when unspecified.
	DefaultStripQueryStrings = true

	MaxStylize     = 1000
	MaxChaos       = 100
	MaxStyleWeight = 1000
)

// Normalize fills unset parameters with the editor defaults.
func (p *PromptJSON) Normalize() {
	if p == nil {
		return
	}
	if strings.TrimSpace(p.AspectRatio) == "" {
		p.AspectRatio = DefaultAspectRatio
	}
	if p.Stylize == nil {
		p.Stylize = promptline.IntPtr(DefaultStylize)
	}
	if p.Chaos == nil {
		p.Chaos = promptline.IntPtr(DefaultChaos)
	}
	if p.StyleWeight == nil {
		p.StyleWeight = promptline.IntPtr(DefaultStyleWeight)
	}
	if p.StripQueryStrings == nil {
		v := DefaultStripQueryStrings
		p.StripQueryStrings = &v
	}
	if p.StyleRefs == nil {
		p.StyleRefs = []string{}
	}
	if p.ProfileIDs == nil {
		p.ProfileIDs = []string{}
	}
}

// Validate checks parameter ranges and the aspect ratio shape.
func (p PromptJSON) Validate() error {
	if p.Stylize != nil && (*p.Stylize < 0 || *p.Stylize > MaxStylize) {
		return fmt.Errorf("stylize must be between 0 and %d", MaxStylize)
	}
	if p.Chaos != nil && (*p.Chaos < 0 || *p.Chaos > MaxChaos) {
		return fmt.Errorf("chaos must be between 0 and %d", MaxChaos)
	}
	if p.StyleWeight != nil && (*p.StyleWeight < 0 || *p.StyleWeight > MaxStyleWeight) {
		return fmt.Errorf("style_weight must be between 0 and %d", MaxStyleWeight)
	}
	if p.AspectRatio != "" && !validAspectRatio(p.AspectRatio) {
		return fmt.Errorf("aspect_ratio must look like W:H, got %q", p.AspectRatio)
	}
	return nil
}

func validAspectRatio(v string) bool {
	w, h, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return false
	}
	wi, err := strconv.Atoi(w)
	if err != nil || wi <= 0 {
		return false
	}
	hi, err := strconv.Atoi(h)
	if err != nil || hi <= 0 {
		return false
	}
	return true
}

// ToRecord converts the wire form into a compiler record. The style weight is
// carried over as given; CompileReconciled drops it from lines without
// references.
func (p PromptJSON) ToRecord() promptline.Record {
	r := promptline.NewRecord()
	r.Subject = p.Subject
	r.Setting = p.Setting
	r.Action = p.Action
	r.Lighting = p.Lighting
	r.ArtDirection = p.ArtDirection
	r.Extras = p.Extras
	r.AspectRatio = strings.TrimSpace(p.AspectRatio)
	if p.Stylize != nil {
		r.Stylize = *p.Stylize
	}
	if p.Chaos != nil {
		r.Chaos = *p.Chaos
	}
	r.Raw = p.Raw
	r.Seed = p.Seed
	if p.StripQueryStrings != nil {
		r.StripQueryStrings = *p.StripQueryStrings
	}
	r.StyleRefs = append(r.StyleRefs, p.StyleRefs...)
	r.ProfileIDs = append(r.ProfileIDs, p.ProfileIDs...)
	if p.StyleWeight != nil {
		r.StyleWeight = promptline.IntPtr(*p.StyleWeight)
	}
	return r
}

// FromRecord converts a compiler record into its wire form.
func FromRecord(r promptline.Record) PromptJSON {
	strip := r.StripQueryStrings
	p := PromptJSON{
		Subject:           r.Subject,
		Setting:           r.Setting,
		Action:            r.Action,
		Lighting:          r.Lighting,
		ArtDirection:      r.ArtDirection,
		Extras:            r.Extras,
		AspectRatio:       r.AspectRatio,
		Stylize:           promptline.IntPtr(r.Stylize),
		Chaos:             promptline.IntPtr(r.Chaos),
		Raw:               r.Raw,
		Seed:              r.Seed,
		StripQueryStrings: &strip,
		StyleRefs:         append([]string{}, r.StyleRefs...),
		ProfileIDs:        append([]string{}, r.ProfileIDs...),
	}
	if r.StyleWeight != nil {
		p.StyleWeight = promptline.IntPtr(*r.StyleWeight)
	}
	return p
}
