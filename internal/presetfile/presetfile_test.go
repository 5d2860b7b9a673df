package presetfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"promptline/internal/domain"
	"promptline/internal/promptline"
)

const sample = `
preset "Climb" {
  subject      = "lone futuristic climber"
  setting      = "dark blizzard"
  aspect_ratio = "3:2"
  stylize      = 700
  chaos        = 55
  raw          = true
  style_weight = 650
  style_refs   = ["https://s.mj.run/AXLYHDNd5Ao?x=1"]
}

preset "Plain" {
  subject = "quiet harbour"
}
`

func TestDecode(t *testing.T) {
	presets, err := Decode("presets.hcl", []byte(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("len = %d, want 2", len(presets))
	}

	climb := presets[0]
	if climb.Name != "Climb" || climb.Record.Chaos != 55 || !climb.Record.Raw {
		t.Fatalf("unexpected preset %+v", climb)
	}
	want := "lone futuristic climber, dark blizzard --ar 3:2 --stylize 700 --chaos 55 --raw --sref https://s.mj.run/AXLYHDNd5Ao --sw 650"
	if got := promptline.CompileReconciled(climb.Record, promptline.DefaultOptions()); got != want {
		t.Fatalf("compiled = %q, want %q", got, want)
	}

	plain := presets[1]
	if plain.Record.AspectRatio != "16:9" || plain.Record.Stylize != 700 || !plain.Record.StripQueryStrings {
		t.Fatalf("defaults not applied: %+v", plain.Record)
	}
}

func TestDecodeExpressions(t *testing.T) {
	src := `
preset "Portal" {
  subject      = join(", ", ["monolith", "circular portal"])
  seed         = format("%d", 1234)
  aspect_ratio = cinematic.aspect_ratio
  chaos        = cinematic.chaos
  stylize      = cinematic.stylize
  raw          = cinematic.raw
}
`
	presets, err := Decode("presets.hcl", []byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "monolith, circular portal --ar 3:2 --stylize 700 --chaos 55 --raw --seed 1234"
	if got := promptline.CompileReconciled(presets[0].Record, promptline.DefaultOptions()); got != want {
		t.Fatalf("compiled = %q, want %q", got, want)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "duplicate", src: `preset "a" {}
preset "A" {}`},
		{name: "blank name", src: `preset " " {}`},
		{name: "out of range", src: `preset "a" { chaos = 400 }`},
		{name: "unknown attribute", src: `preset "a" { colour = "red" }`},
		{name: "syntax", src: `preset "a" {`},
		{name: "unknown function", src: `preset "a" { subject = shout("x") }`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode("presets.hcl", []byte(tc.src))
			if !errors.Is(err, domain.ErrInvalidPreset) {
				t.Fatalf("err = %v, want ErrInvalidPreset", err)
			}
		})
	}
}

func TestLoadAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.hcl")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	presets, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p, ok := Find(presets, " plain "); !ok || p.Record.Subject != "quiet harbour" {
		t.Fatalf("Find = %+v, %t", p, ok)
	}
	if _, ok := Find(presets, "missing"); ok {
		t.Fatal("Find returned a missing preset")
	}
}
