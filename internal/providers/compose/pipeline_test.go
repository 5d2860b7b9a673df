package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"promptline/internal/domain"
	"promptline/internal/promptline"
)

func TestPipelineReconcilesEveryLine(t *testing.T) {
	composer := fakeComposer{compose: func(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
		if req.MaxSrefs != 2 {
			t.Errorf("MaxSrefs = %d, want 2", req.MaxSrefs)
		}
		return &ComposeResult{
			PromptLine: "hero, desert —ar 3:2 --chaos 40 --sw 650",
			Variants: []string{
				"hero at night --sref --stylize 900",
				"   ",
			},
			Notes:    "n",
			Provider: OpenAIProvider,
		}, nil
	}}
	record := promptline.NewRecord()
	record.Stylize = 700
	record.Raw = true

	out, err := NewPipeline(composer, promptline.Options{MaxSrefs: 2}).Run(context.Background(), "hero", record, "en")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(out.Options) != 2 {
		t.Fatalf("Options = %+v", out.Options)
	}
	main := out.Options[0]
	if main.PromptLine != "hero, desert --ar 3:2 --chaos 40" {
		t.Fatalf("PromptLine = %q", main.PromptLine)
	}
	if main.Parsed.Subject != "hero" || main.Parsed.Setting != "desert" || main.Parsed.Chaos != 40 || main.Parsed.Stylize != 700 {
		t.Fatalf("Parsed = %+v", main.Parsed)
	}
	if main.Parsed.Raw {
		t.Fatal("Raw should follow the line, not the fallback")
	}
	if out.Options[1].PromptLine != "hero at night --stylize 900" || out.Options[1].Parsed.Stylize != 900 {
		t.Fatalf("variant = %+v", out.Options[1])
	}
	if out.Provider != OpenAIProvider || out.Notes != "n" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestPipelineStripsQueriesWhenRequested(t *testing.T) {
	composer := fakeComposer{compose: func(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
		return &ComposeResult{PromptLine: "hero --sref https://s.mj.run/a?x=1 --sw 300"}, nil
	}}
	record := promptline.NewRecord()
	record.StyleRefs = []string{"https://s.mj.run/a"}

	for _, strip := range []bool{true, false} {
		record.StripQueryStrings = strip
		out, err := NewPipeline(composer, promptline.DefaultOptions()).Run(context.Background(), "", record, "")
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		line := out.Options[0].PromptLine
		if strip == strings.Contains(line, "?x=1") {
			t.Fatalf("strip=%t line=%q", strip, line)
		}
		if !strings.HasSuffix(line, "--sw 300") {
			t.Fatalf("style weight dropped despite references: %q", line)
		}
	}
}

func TestPipelineWrapsProviderErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := fakeComposer{compose: func(context.Context, ComposeRequest) (*ComposeResult, error) { return nil, boom }}
	_, err := NewPipeline(failing, promptline.DefaultOptions()).Run(context.Background(), "x", promptline.NewRecord(), "")
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("error = %v, want ErrProviderFailure", err)
	}

	empty := fakeComposer{compose: func(context.Context, ComposeRequest) (*ComposeResult, error) {
		return &ComposeResult{PromptLine: " --sw 5"}, nil
	}}
	_, err = NewPipeline(empty, promptline.DefaultOptions()).Run(context.Background(), "x", promptline.NewRecord(), "")
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("error = %v, want ErrProviderFailure", err)
	}
}

func TestPipelineDefaultsToStaticComposer(t *testing.T) {
	record := promptline.NewRecord()
	record.StyleWeight = promptline.IntPtr(400)
	out, err := NewPipeline(nil, promptline.DefaultOptions()).Run(context.Background(), "lighthouse", record, "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.Provider != StaticProvider || len(out.Options) != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	for _, opt := range out.Options {
		if strings.Contains(opt.PromptLine, "--sw") {
			t.Fatalf("orphan style weight in %q", opt.PromptLine)
		}
	}
}
