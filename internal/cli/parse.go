package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"promptline/internal/domain/jsoncfg"
	"promptline/internal/promptline"
)

func newParseCmd() *cobra.Command {
	var fallbackFile string
	cmd := &cobra.Command{
		Use:   "parse <line>",
		Short: "Parse a prompt line back into a prompt record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback, err := loadFallback(fallbackFile)
			if err != nil {
				return err
			}
			rec := promptline.Parse(strings.Join(args, " "), fallback)
			return writeJSON(cmd.OutOrStdout(), jsoncfg.FromRecord(rec))
		},
	}
	cmd.Flags().StringVar(&fallbackFile, "fallback-file", "", "JSON prompt supplying values the line omits")
	return cmd
}

func loadFallback(path string) (promptline.Record, error) {
	if path == "" {
		return promptline.NewRecord(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return promptline.Record{}, err
	}
	var p jsoncfg.PromptJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return promptline.Record{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return promptline.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	p.Normalize()
	return p.ToRecord(), nil
}

func newCleanCmd() *cobra.Command {
	var (
		noRefs     bool
		stripQuery bool
	)
	cmd := &cobra.Command{
		Use:   "clean <line>",
		Short: "Normalise a prompt line and drop flags that cannot apply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			hasRefs := !noRefs && promptline.HasStyleRefs(promptline.Parse(line, promptline.Record{}).StyleRefs)
			line = promptline.Reconcile(line, hasRefs)
			if stripQuery {
				line = promptline.StripURLQueries(line)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
		Example: `promptline clean "hero —ar 3:2 --sw 650"`,
	}
	cmd.Flags().BoolVar(&noRefs, "no-refs", false, "treat the line as having no style references")
	cmd.Flags().BoolVar(&stripQuery, "strip-query", false, "strip query strings and fragments from URLs")
	return cmd
}
