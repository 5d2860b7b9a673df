package promptline

import "strings"

// Record is the structured form of a prompt line. Descriptive fields are
// listed in the order they appear in the compiled text.
type Record struct {
	Subject      string `json:"subject"`
	Setting      string `json:"setting"`
	Action       string `json:"action"`
	Lighting     string `json:"lighting"`
	ArtDirection string `json:"art_direction"`
	Extras       string `json:"extras"`

	AspectRatio       string   `json:"aspect_ratio"`
	Stylize           int      `json:"stylize"`
	Chaos             int      `json:"chaos"`
	Raw               bool     `json:"raw"`
	StyleWeight       *int     `json:"style_weight,omitempty"`
	Seed              string   `json:"seed,omitempty"`
	StyleRefs         []string `json:"style_refs"`
	ProfileIDs        []string `json:"profile_ids"`
	StripQueryStrings bool     `json:"strip_query_strings"`
}

const (
	// DefaultMaxSrefs caps the number of style references in a compiled line.
	DefaultMaxSrefs = 3
	// DefaultStylize is the stylize value the compiler leaves implicit.
	DefaultStylize = 100
	// DefaultChaos is the chaos value of a fresh record.
	DefaultChaos = 0
)

// Options carries the compile policy. The zero value behaves like DefaultOptions.
type Options struct {
	// MaxSrefs caps emitted style references; non-positive means DefaultMaxSrefs.
	MaxSrefs int
	// DefaultStylize is the stylize value left implicit in compiled lines.
	// Zero means DefaultStylize; use StylizeZero to make 0 the implicit value.
	DefaultStylize int
}

// StylizeZero as Options.DefaultStylize makes a stylize of 0 the implicit
// value.
const StylizeZero = -1

// DefaultOptions returns the policy used when callers have no preference.
func DefaultOptions() Options {
	return Options{MaxSrefs: DefaultMaxSrefs, DefaultStylize: DefaultStylize}
}

func (o Options) withDefaults() Options {
	if o.MaxSrefs <= 0 {
		o.MaxSrefs = DefaultMaxSrefs
	}
	switch o.DefaultStylize {
	case 0:
		o.DefaultStylize = DefaultStylize
	case StylizeZero:
		o.DefaultStylize = 0
	}
	return o
}

// NewRecord returns a record holding the parameter defaults and no text.
func NewRecord() Record {
	return Record{
		Stylize:    DefaultStylize,
		Chaos:      DefaultChaos,
		StyleRefs:  []string{},
		ProfileIDs: []string{},
	}
}

// Clone returns a deep copy so callers can derive records without aliasing slices.
func (r Record) Clone() Record {
	out := r
	if r.StyleWeight != nil {
		sw := *r.StyleWeight
		out.StyleWeight = &sw
	}
	out.StyleRefs = append([]string(nil), r.StyleRefs...)
	out.ProfileIDs = append([]string(nil), r.ProfileIDs...)
	return out
}

// descriptive returns the six text fields in compile order.
func (r Record) descriptive() [6]string {
	return [6]string{r.Subject, r.Setting, r.Action, r.Lighting, r.ArtDirection, r.Extras}
}

// HasStyleRefs reports whether refs holds at least one non-blank entry.
func HasStyleRefs(refs []string) bool {
	for _, ref := range refs {
		if strings.TrimSpace(ref) != "" {
			return true
		}
	}
	return false
}

// IntPtr is a convenience for optional integer fields such as StyleWeight.
func IntPtr(v int) *int {
	return &v
}
