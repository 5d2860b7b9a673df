// Package cli implements the promptline command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptline/internal/promptline"
)

// NewRootCmd builds the command tree. Settings resolve from flags, then
// PROMPTLINE_* environment variables, then the optional config file.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "promptline",
		Short:         "Compile, parse and clean Midjourney prompt lines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.promptline.yaml)")
	root.PersistentFlags().Int("max-srefs", promptline.DefaultMaxSrefs, "maximum style references kept in a compiled line")
	root.PersistentFlags().Int("default-stylize", promptline.DefaultStylize, "stylize value left implicit in compiled lines")
	_ = v.BindPFlag("max_srefs", root.PersistentFlags().Lookup("max-srefs"))
	_ = v.BindPFlag("default_stylize", root.PersistentFlags().Lookup("default-stylize"))

	root.AddCommand(
		newCompileCmd(v),
		newParseCmd(),
		newCleanCmd(),
		newPresetsCmd(v),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("promptline")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".promptline")
		_ = v.ReadInConfig()
	}
	return nil
}

func compileOptions(v *viper.Viper) promptline.Options {
	return promptline.Options{
		MaxSrefs:       v.GetInt("max_srefs"),
		DefaultStylize: v.GetInt("default_stylize"),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
