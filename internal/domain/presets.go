package domain

import "promptline/internal/promptline"

// DefaultPresets returns the presets a fresh installation is seeded with.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name: "Climb",
			Record: promptline.Record{
				Subject:           "lone futuristic climber on a snow ridge",
				Setting:           "dark blizzard, jagged peaks, reflective ice",
				Action:            "ascending toward a glowing obsidian monolith",
				Lighting:          "soft rim light, neon reflections, volumetric mist",
				ArtDirection:      "editorial sci-fi minimalism, web3 tone",
				Extras:            "cinematic composition, atmospheric perspective, reflective textures",
				AspectRatio:       "3:2",
				Stylize:           700,
				Chaos:             55,
				Raw:               true,
				StyleWeight:       promptline.IntPtr(650),
				StripQueryStrings: true,
				StyleRefs:         []string{"https://s.mj.run/AXLYHDNd5Ao", "https://s.mj.run/xFZ89e3Blpo"},
				ProfileIDs:        []string{},
			},
		},
		{
			Name: "Summit",
			Record: promptline.Record{
				Subject:           "explorer reaching mountain peak at dawn",
				Setting:           "ice-covered summit, crystal clear sky, distant valleys below",
				Action:            "planting illuminated beacon on highest point",
				Lighting:          "golden hour light, lens flares, god rays through clouds",
				ArtDirection:      "epic landscape photography, heroic composition",
				Extras:            "wide angle, dramatic scale, triumph and achievement",
				AspectRatio:       "16:9",
				Stylize:           800,
				Chaos:             30,
				StyleWeight:       promptline.IntPtr(500),
				StripQueryStrings: true,
				StyleRefs:         []string{},
				ProfileIDs:        []string{},
			},
		},
		{
			Name: "Beacon",
			Record: promptline.Record{
				Subject:           "geometric light structure floating in atmosphere",
				Setting:           "minimal void, soft gradient sky, weightless environment",
				Action:            "pulsing with rhythmic energy, casting perfect shadows",
				Lighting:          "studio lighting, clean specular highlights, ambient occlusion",
				ArtDirection:      "architectural visualization, brutalist minimalism",
				Extras:            "perfect symmetry, sharp edges, glass and chrome materials",
				AspectRatio:       "1:1",
				Stylize:           900,
				Chaos:             10,
				Raw:               true,
				StyleWeight:       promptline.IntPtr(700),
				StripQueryStrings: true,
				StyleRefs:         []string{},
				ProfileIDs:        []string{},
			},
		},
	}
}
