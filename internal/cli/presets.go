package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptline/internal/domain"
	"promptline/internal/presetfile"
	"promptline/internal/promptline"
)

func newPresetsCmd(v *viper.Viper) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List presets with their compiled lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := domain.DefaultPresets()
			if file != "" {
				loaded, err := presetfile.Load(file)
				if err != nil {
					return err
				}
				presets = loaded
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range presets {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, promptline.CompileReconciled(p.Record, compileOptions(v)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "HCL preset file (defaults to the built-in presets)")
	return cmd
}
