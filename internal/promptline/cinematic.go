package promptline

// Quick-insert vocabulary for the cinematic formula:
// subject + geometry + colour contrast + atmosphere + emotion.
var (
	Geometries = []string{
		"circular portal",
		"hovering disc of light",
		"mirrored obelisk",
		"crystalline pyramid",
		"floating ring structure",
		"geometric monolith",
		"angular archway",
		"suspended sphere",
		"metallic column",
		"transparent cube",
	}

	ColorDualities = []string{
		"orange glow and blue mist",
		"cyan light and magenta shadows",
		"warm gold and cool silver",
		"electric blue and deep red",
		"violet radiance and green fog",
		"amber core and ice-blue edges",
		"crimson spill and cobalt atmosphere",
	}

	Atmospheres = []string{
		"volumetric mist and snow drift",
		"crystalline particles in air",
		"dense fog with light rays",
		"soft snow catching reflections",
		"diffused light through clouds",
		"atmospheric haze and glow",
		"light bleeding through vapor",
		"ethereal fog with shimmer",
	}

	Emotions = []string{
		"quiet awe and transcendence",
		"silent revelation",
		"solemn discovery",
		"calm devotion",
		"peaceful solitude",
		"contemplative wonder",
		"meditative presence",
		"serene isolation",
	}
)

// Cinematic parameter set: 3:2 framing, chaos 55, stylize 700, raw.
const (
	CinematicAspectRatio = "3:2"
	CinematicChaos       = 55
	CinematicStylize     = 700
)

// CinematicPreset returns a copy of r with the cinematic parameters applied.
func CinematicPreset(r Record) Record {
	out := r.Clone()
	out.AspectRatio = CinematicAspectRatio
	out.Chaos = CinematicChaos
	out.Stylize = CinematicStylize
	out.Raw = true
	return out
}

// AppendPhrase adds phrase to a descriptive field, comma separated.
func AppendPhrase(field, phrase string) string {
	switch {
	case phrase == "":
		return field
	case field == "":
		return phrase
	default:
		return field + ", " + phrase
	}
}
