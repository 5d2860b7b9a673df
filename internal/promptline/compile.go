package promptline

import (
	"strconv"
	"strings"
)

// Compile renders r as a single canonical line: the non-empty descriptive
// fields joined by ", " followed by flags in FlagOrder.
//
// Compile never fails and never clamps. StyleWeight is emitted whenever it is
// set; pair it with Reconcile to drop it from lines without references.
func Compile(r Record, opts Options) string {
	opts = opts.withDefaults()

	text := make([]string, 0, 6)
	for _, field := range r.descriptive() {
		if v := strings.TrimSpace(field); v != "" {
			text = append(text, v)
		}
	}

	var params []string
	if r.AspectRatio != "" {
		params = append(params, flagAspectRatio+" "+r.AspectRatio)
	}
	if r.Stylize != opts.DefaultStylize {
		params = append(params, flagStylize+" "+strconv.Itoa(r.Stylize))
	}
	if r.Chaos > 0 {
		params = append(params, flagChaos+" "+strconv.Itoa(r.Chaos))
	}
	if r.Raw {
		params = append(params, flagRaw)
	}
	for _, id := range r.ProfileIDs {
		if id = strings.TrimSpace(id); id != "" {
			params = append(params, flagProfile+" "+id)
		}
	}
	if refs := styleRefs(r.StyleRefs, opts.MaxSrefs, r.StripQueryStrings); len(refs) > 0 {
		params = append(params, flagStyleRef+" "+strings.Join(refs, " "))
	}
	if r.StyleWeight != nil {
		params = append(params, flagStyleWeight+" "+strconv.Itoa(*r.StyleWeight))
	}
	if seed := strings.TrimSpace(r.Seed); seed != "" {
		params = append(params, flagSeed+" "+seed)
	}

	line := strings.Join(text, ", ")
	if len(params) > 0 {
		line += " " + strings.Join(params, " ")
	}
	return Sanitize(line)
}

// CompileReconciled compiles r and applies Reconcile against its references.
func CompileReconciled(r Record, opts Options) string {
	return Reconcile(Compile(r, opts), HasStyleRefs(r.StyleRefs))
}

func styleRefs(refs []string, limit int, strip bool) []string {
	out := make([]string, 0, limit)
	for _, ref := range refs {
		if len(out) == limit {
			break
		}
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		out = append(out, CleanURL(ref, strip))
	}
	return out
}
