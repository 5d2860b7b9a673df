package jsoncfg

import (
	"testing"

	"promptline/internal/promptline"
)

func TestPromptJSONNormalizeDefaults(t *testing.T) {
	p := &PromptJSON{}
	p.Normalize()

	if p.AspectRatio != DefaultAspectRatio {
		t.Fatalf("AspectRatio = %q, want %q", p.AspectRatio, DefaultAspectRatio)
	}
	if p.Stylize == nil || *p.Stylize != DefaultStylize {
		t.Fatalf("Stylize = %v, want %d", p.Stylize, DefaultStylize)
	}
	if p.Chaos == nil || *p.Chaos != DefaultChaos {
		t.Fatalf("Chaos = %v, want %d", p.Chaos, DefaultChaos)
	}
	if p.StyleWeight == nil || *p.StyleWeight != DefaultStyleWeight {
		t.Fatalf("StyleWeight = %v, want %d", p.StyleWeight, DefaultStyleWeight)
	}
	if p.StripQueryStrings == nil || !*p.StripQueryStrings {
		t.Fatalf("StripQueryStrings = %v, want true", p.StripQueryStrings)
	}
	if p.StyleRefs == nil || p.ProfileIDs == nil {
		t.Fatal("slices should be initialised")
	}
}

func TestPromptJSONNormalizeKeepsExplicitValues(t *testing.T) {
	strip := false
	p := &PromptJSON{
		AspectRatio:       "3:2",
		Stylize:           promptline.IntPtr(100),
		Chaos:             promptline.IntPtr(40),
		StripQueryStrings: &strip,
	}
	p.Normalize()

	if p.AspectRatio != "3:2" || *p.Stylize != 100 || *p.Chaos != 40 || *p.StripQueryStrings {
		t.Fatalf("explicit values overwritten: %+v", p)
	}
}

func TestPromptJSONValidate(t *testing.T) {
	tests := []struct {
		name    string
		prompt  PromptJSON
		wantErr bool
	}{
		{name: "empty", prompt: PromptJSON{}},
		{name: "valid", prompt: PromptJSON{AspectRatio: "21:9", Stylize: promptline.IntPtr(1000), Chaos: promptline.IntPtr(100), StyleWeight: promptline.IntPtr(0)}},
		{name: "stylize high", prompt: PromptJSON{Stylize: promptline.IntPtr(1001)}, wantErr: true},
		{name: "stylize negative", prompt: PromptJSON{Stylize: promptline.IntPtr(-1)}, wantErr: true},
		{name: "chaos high", prompt: PromptJSON{Chaos: promptline.IntPtr(101)}, wantErr: true},
		{name: "style weight high", prompt: PromptJSON{StyleWeight: promptline.IntPtr(2000)}, wantErr: true},
		{name: "aspect no colon", prompt: PromptJSON{AspectRatio: "wide"}, wantErr: true},
		{name: "aspect zero", prompt: PromptJSON{AspectRatio: "0:1"}, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.prompt.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPromptJSONToRecordStyleWeight(t *testing.T) {
	p := PromptJSON{Subject: "hero", StyleWeight: promptline.IntPtr(650), StyleRefs: []string{" "}}
	p.Normalize()
	r := p.ToRecord()
	if r.StyleWeight == nil || *r.StyleWeight != 650 {
		t.Fatalf("StyleWeight = %v, want 650", r.StyleWeight)
	}
	if got := promptline.CompileReconciled(r, promptline.DefaultOptions()); got != "hero --ar 16:9 --stylize 700" {
		t.Fatalf("CompileReconciled = %q", got)
	}

	p.StyleRefs = []string{"https://s.mj.run/a?utm=1"}
	r = p.ToRecord()
	if got := promptline.CompileReconciled(r, promptline.DefaultOptions()); got != "hero --ar 16:9 --stylize 700 --sref https://s.mj.run/a --sw 650" {
		t.Fatalf("CompileReconciled = %q", got)
	}
}

func TestFromRecordRoundTrip(t *testing.T) {
	r := promptline.NewRecord()
	r.Subject = "beacon"
	r.Chaos = 10
	r.StyleRefs = []string{"https://a.test/1"}
	r.StyleWeight = promptline.IntPtr(300)

	back := FromRecord(r).ToRecord()
	if back.Subject != "beacon" || back.Chaos != 10 || back.StyleWeight == nil || *back.StyleWeight != 300 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
