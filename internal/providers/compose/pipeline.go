package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"promptline/internal/domain"
	"promptline/internal/promptline"
)

// Option is one reconciled prompt line and the record parsed back from it.
type Option struct {
	PromptLine string            `json:"prompt_line"`
	Parsed     promptline.Record `json:"parsed"`
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	Options  []Option          `json:"options"`
	Notes    string            `json:"notes"`
	Provider string            `json:"provider"`
	Metadata map[string]string `json:"metadata"`
}

// Pipeline composes prompt lines and brings them back into the record model.
type Pipeline struct {
	composer Composer
	opts     promptline.Options
}

func NewPipeline(composer Composer, opts promptline.Options) *Pipeline {
	if composer == nil {
		composer = NewStaticComposer()
	}
	return &Pipeline{composer: composer, opts: opts}
}

// Run composes from record and idea, then reconciles every returned line
// against the record's references and parses it with record as fallback.
func (p *Pipeline) Run(ctx context.Context, idea string, record promptline.Record, locale string) (*Outcome, error) {
	res, err := p.composer.Compose(ctx, ComposeRequest{
		Idea:     idea,
		Record:   record.Clone(),
		MaxSrefs: p.opts.MaxSrefs,
		Locale:   locale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: empty result", domain.ErrProviderFailure)
	}

	lines := append([]string{res.PromptLine}, res.Variants...)
	hasRefs := promptline.HasStyleRefs(record.StyleRefs)
	options := make([]Option, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cleaned := promptline.Reconcile(line, hasRefs)
			if record.StripQueryStrings {
				cleaned = promptline.StripURLQueries(cleaned)
			}
			options[i] = Option{PromptLine: cleaned, Parsed: promptline.Parse(cleaned, record)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{
		Options:  make([]Option, 0, len(options)),
		Notes:    res.Notes,
		Provider: res.Provider,
		Metadata: res.Metadata,
	}
	for _, opt := range options {
		if strings.TrimSpace(opt.PromptLine) == "" {
			continue
		}
		out.Options = append(out.Options, opt)
	}
	if len(out.Options) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, errEmptyComposition)
	}
	return out, nil
}

var errEmptyComposition = errors.New("no prompt lines returned")
