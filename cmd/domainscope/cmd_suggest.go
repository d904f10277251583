package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benithors/domainscope/internal/domain"
)

func newSuggestCmd(cfg *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <domain>",
		Short: "Generate alternative name ideas for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := domain.Normalize(args[0])
			if err != nil {
				return usageErr(cmd, fmt.Errorf("invalid domain %q: %w", args[0], err))
			}

			if f, ok := demoFixture(cfg, name); ok {
				return writeSuggestions(os.Stdout, cfg.outFormat, f.Suggestions)
			}

			out, err := cfg.sugg.Generate(cmd.Context(), name)
			if err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("suggestion lookup: %w", err), Cmd: cmd}
			}
			if err := writeSuggestions(os.Stdout, cfg.outFormat, out); err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("failed to write output: %w", err), Cmd: cmd}
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(usageErr)
	return cmd
}
