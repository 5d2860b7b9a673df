// Package presetfile loads prompt presets from HCL documents such as
//
//	preset "Climb" {
//	  subject      = "lone futuristic climber"
//	  aspect_ratio = "3:2"
//	  stylize      = 700
//	  style_refs   = ["https://s.mj.run/AXLYHDNd5Ao"]
//	}
//
// Expressions may call join, format, lower, upper, trimspace and concat,
// and read the cinematic parameter set from the cinematic object.
package presetfile

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"promptline/internal/domain"
	"promptline/internal/domain/jsoncfg"
	"promptline/internal/promptline"
)

type document struct {
	Presets []presetBlock `hcl:"preset,block"`
}

type presetBlock struct {
	Name              string   `hcl:"name,label"`
	Subject           string   `hcl:"subject,optional"`
	Setting           string   `hcl:"setting,optional"`
	Action            string   `hcl:"action,optional"`
	Lighting          string   `hcl:"lighting,optional"`
	ArtDirection      string   `hcl:"art_direction,optional"`
	Extras            string   `hcl:"extras,optional"`
	AspectRatio       string   `hcl:"aspect_ratio,optional"`
	Stylize           *int     `hcl:"stylize,optional"`
	Chaos             *int     `hcl:"chaos,optional"`
	Raw               bool     `hcl:"raw,optional"`
	StyleWeight       *int     `hcl:"style_weight,optional"`
	Seed              string   `hcl:"seed,optional"`
	StripQueryStrings *bool    `hcl:"strip_query_strings,optional"`
	StyleRefs         []string `hcl:"style_refs,optional"`
	ProfileIDs        []string `hcl:"profile_ids,optional"`
}

// Load reads the presets declared in the file at path. The file may use
// native HCL syntax (.hcl) or its JSON variant (.json).
func Load(path string) ([]domain.Preset, error) {
	var doc document
	if err := hclsimple.DecodeFile(path, evalContext(), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPreset, err)
	}
	return convert(doc)
}

// Decode parses src as a preset document; filename selects the syntax by
// its extension and is used in diagnostics.
func Decode(filename string, src []byte) ([]domain.Preset, error) {
	var doc document
	if err := hclsimple.Decode(filename, src, evalContext(), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPreset, err)
	}
	return convert(doc)
}

// Find returns the preset named name, matching case-insensitively.
func Find(presets []domain.Preset, name string) (domain.Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.Preset{}, false
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cinematic": cty.ObjectVal(map[string]cty.Value{
				"aspect_ratio": cty.StringVal(promptline.CinematicAspectRatio),
				"chaos":        cty.NumberIntVal(promptline.CinematicChaos),
				"stylize":      cty.NumberIntVal(promptline.CinematicStylize),
				"raw":          cty.True,
			}),
		},
		Functions: map[string]function.Function{
			"concat":    stdlib.ConcatFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"upper":     stdlib.UpperFunc,
		},
	}
}

func convert(doc document) ([]domain.Preset, error) {
	seen := make(map[string]struct{}, len(doc.Presets))
	out := make([]domain.Preset, 0, len(doc.Presets))
	for _, b := range doc.Presets {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: preset name is required", domain.ErrInvalidPreset)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate preset %q", domain.ErrInvalidPreset, name)
		}
		seen[key] = struct{}{}

		p := b.prompt()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: preset %q: %v", domain.ErrInvalidPreset, name, err)
		}
		p.Normalize()
		out = append(out, domain.Preset{Name: name, Record: p.ToRecord()})
	}
	return out, nil
}

func (b presetBlock) prompt() jsoncfg.PromptJSON {
	return jsoncfg.PromptJSON{
		Subject:           b.Subject,
		Setting:           b.Setting,
		Action:            b.Action,
		Lighting:          b.Lighting,
		ArtDirection:      b.ArtDirection,
		Extras:            b.Extras,
		AspectRatio:       b.AspectRatio,
		Stylize:           b.Stylize,
		Chaos:             b.Chaos,
		Raw:               b.Raw,
		StyleWeight:       b.StyleWeight,
		Seed:              b.Seed,
		StripQueryStrings: b.StripQueryStrings,
		StyleRefs:         b.StyleRefs,
		ProfileIDs:        b.ProfileIDs,
	}
}
