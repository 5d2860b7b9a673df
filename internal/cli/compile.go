package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptline/internal/domain/jsoncfg"
	"promptline/internal/presetfile"
	"promptline/internal/promptline"
)

type compileFlags struct {
	file      string
	name      string
	cinematic bool
	stats     bool
	keepQuery bool
	prompt    jsoncfg.PromptJSON
	stylize   int
	chaos     int
	sw        int
}

func newCompileCmd(v *viper.Viper) *cobra.Command {
	f := &compileFlags{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a prompt record into a single prompt line",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := f.record(cmd)
			if err != nil {
				return err
			}
			if f.cinematic {
				rec = promptline.CinematicPreset(rec)
			}
			line := promptline.CompileReconciled(rec, compileOptions(v))
			fmt.Fprintln(cmd.OutOrStdout(), line)
			if f.stats {
				stats := promptline.CountTokens(line)
				fmt.Fprintf(cmd.OutOrStdout(), "words=%d chars=%d\n", stats.Words, stats.Chars)
			}
			return nil
		},
		Example: `promptline compile --subject "lone climber" --setting "icy ridge" --ar 3:2 --chaos 55 --raw
promptline compile --file presets.hcl --name Climb`,
	}

	fl := cmd.Flags()
	fl.StringVar(&f.file, "file", "", "HCL preset file to compile from")
	fl.StringVar(&f.name, "name", "", "preset name inside --file")
	fl.BoolVar(&f.cinematic, "cinematic", false, "apply the cinematic parameter set")
	fl.BoolVar(&f.stats, "stats", false, "print word and character counts")
	fl.StringVar(&f.prompt.Subject, "subject", "", "subject text")
	fl.StringVar(&f.prompt.Setting, "setting", "", "setting text")
	fl.StringVar(&f.prompt.Action, "action", "", "action text")
	fl.StringVar(&f.prompt.Lighting, "lighting", "", "lighting text")
	fl.StringVar(&f.prompt.ArtDirection, "art-direction", "", "art direction text")
	fl.StringVar(&f.prompt.Extras, "extras", "", "extra descriptors")
	fl.StringVar(&f.prompt.AspectRatio, "ar", jsoncfg.DefaultAspectRatio, "aspect ratio W:H")
	fl.IntVar(&f.stylize, "stylize", jsoncfg.DefaultStylize, "stylize 0-1000")
	fl.IntVar(&f.chaos, "chaos", jsoncfg.DefaultChaos, "chaos 0-100")
	fl.BoolVar(&f.prompt.Raw, "raw", false, "emit --raw")
	fl.IntVar(&f.sw, "sw", jsoncfg.DefaultStyleWeight, "style weight 0-1000, only emitted with style references")
	fl.StringVar(&f.prompt.Seed, "seed", "", "seed")
	fl.StringSliceVar(&f.prompt.StyleRefs, "sref", nil, "style reference URLs")
	fl.StringSliceVar(&f.prompt.ProfileIDs, "profile", nil, "profile ids")
	fl.BoolVar(&f.keepQuery, "keep-query", false, "keep query strings on style reference URLs")
	return cmd
}

func (f *compileFlags) record(cmd *cobra.Command) (promptline.Record, error) {
	if f.file != "" {
		return f.presetRecord()
	}
	if f.name != "" {
		return promptline.Record{}, errors.New("--name requires --file")
	}

	p := f.prompt
	p.Stylize = promptline.IntPtr(f.stylize)
	p.Chaos = promptline.IntPtr(f.chaos)
	if cmd.Flags().Changed("sw") {
		p.StyleWeight = promptline.IntPtr(f.sw)
	}
	strip := !f.keepQuery
	p.StripQueryStrings = &strip
	if err := p.Validate(); err != nil {
		return promptline.Record{}, err
	}
	p.Normalize()
	return p.ToRecord(), nil
}

func (f *compileFlags) presetRecord() (promptline.Record, error) {
	presets, err := presetfile.Load(f.file)
	if err != nil {
		return promptline.Record{}, err
	}
	if len(presets) == 0 {
		return promptline.Record{}, fmt.Errorf("%s declares no presets", f.file)
	}
	if strings.TrimSpace(f.name) == "" {
		return presets[0].Record, nil
	}
	p, ok := presetfile.Find(presets, f.name)
	if !ok {
		return promptline.Record{}, fmt.Errorf("preset %q not found in %s", f.name, f.file)
	}
	return p.Record, nil
}
