package promptline

import (
	"strconv"
	"strings"
)

// scan holds what a single pass over a line recognised.
type scan struct {
	aspectRatio *string
	stylize     *int
	chaos       *int
	styleWeight *int
	seed        *string
	styleRefs   []string
	raw         bool
	residual    []string
}

// tokenize walks the whitespace separated tokens of line once. Recognised
// flags and their values are consumed; the first occurrence of a flag wins
// and later ones are dropped. Unknown tokens are kept as residual text.
func tokenize(line string) scan {
	var s scan
	tokens := strings.Fields(line)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}
		switch tok {
		case flagRaw:
			s.raw = true
		case flagAspectRatio:
			if next == "" || isFlag(next) {
				continue
			}
			i++
			if s.aspectRatio == nil {
				v := next
				s.aspectRatio = &v
			}
		case flagSeed:
			if next == "" || isFlag(next) {
				continue
			}
			i++
			// a comma closes the seed and starts the next segment
			seed, rest, cut := strings.Cut(next, ",")
			if cut {
				s.residual = append(s.residual, ","+rest)
			}
			if s.seed == nil && seed != "" {
				s.seed = &seed
			}
		case flagStylize, flagChaos, flagStyleWeight:
			digits, rest := leadingInt(next)
			if digits == "" {
				continue
			}
			i++
			if rest != "" {
				s.residual = append(s.residual, rest)
			}
			s.assignNumeric(tok, digits)
		case flagStyleRef:
			var refs []string
			for i+1 < len(tokens) && isURLToken(tokens[i+1]) {
				refs = append(refs, tokens[i+1])
				i++
			}
			if s.styleRefs == nil && len(refs) > 0 {
				s.styleRefs = refs
			}
		case flagProfile:
			if next == "" || isFlag(next) {
				continue
			}
			i++
		default:
			s.residual = append(s.residual, tok)
		}
	}
	return s
}

func (s *scan) assignNumeric(flag, digits string) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return
	}
	switch flag {
	case flagStylize:
		if s.stylize == nil {
			s.stylize = &n
		}
	case flagChaos:
		if s.chaos == nil {
			s.chaos = &n
		}
	case flagStyleWeight:
		if s.styleWeight == nil {
			s.styleWeight = &n
		}
	}
}

// Parse recovers a record from a line that loosely follows the compiled
// grammar. Parameters missing from the line are taken from fallback, except
// Raw whose absence always means false. Descriptive text is split on commas:
// the first five segments fill subject through art direction and everything
// after is rejoined into Extras. Parse never fails and never modifies fallback.
func Parse(line string, fallback Record) Record {
	s := tokenize(Sanitize(line))
	out := fallback.Clone()

	segments := splitSegments(strings.Join(s.residual, " "))
	fields := []*string{&out.Subject, &out.Setting, &out.Action, &out.Lighting, &out.ArtDirection}
	for i, field := range fields {
		*field = ""
		if i < len(segments) {
			*field = segments[i]
		}
	}
	out.Extras = ""
	if len(segments) > len(fields) {
		out.Extras = strings.Join(segments[len(fields):], ", ")
	}

	if s.aspectRatio != nil {
		out.AspectRatio = *s.aspectRatio
	}
	if s.stylize != nil {
		out.Stylize = *s.stylize
	}
	if s.chaos != nil {
		out.Chaos = *s.chaos
	}
	out.Raw = s.raw
	if s.styleWeight != nil {
		out.StyleWeight = s.styleWeight
	}
	if s.seed != nil {
		out.Seed = *s.seed
	}
	if s.styleRefs != nil {
		out.StyleRefs = s.styleRefs
	}
	return out
}

func splitSegments(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
