package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/benithors/domainscope/internal/demo"
	"github.com/benithors/domainscope/internal/domain"
)

// reportRow is one domain's aggregated intel, flattened for output.
type reportRow struct {
	Domain    string  `json:"domain"`
	Available bool    `json:"available"`
	StatusRaw string  `json:"statusRaw"`
	Registrar string  `json:"registrar,omitempty"`
	ExpiresAt string  `json:"expiresAt,omitempty"`
	PriceUSD  float64 `json:"priceUsd,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func newCheckCmd(cfg *appConfig) *cobra.Command {
	var availableOnly bool
	var withPrices bool

	cmd := &cobra.Command{
		Use:   "check [domain...]",
		Short: "Aggregate availability, registration and pricing for explicit domains (args and/or stdin)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readDomainsFromArgsAndStdin(args, os.Stdin)
			if err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("failed to read domains: %w", err), Cmd: cmd}
			}
			if len(inputs) == 0 {
				return &cliError{Code: 2, ShowUsage: true, Cmd: cmd}
			}

			rows := make([]reportRow, len(inputs))
			grp, ctx := errgroup.WithContext(cmd.Context())
			grp.SetLimit(max(1, cfg.Concurrency))
			for i, raw := range inputs {
				i, raw := i, raw
				grp.Go(func() error {
					name, err := domain.Normalize(raw)
					if err != nil {
						rows[i] = reportRow{Domain: strings.TrimSpace(raw), Error: err.Error()}
						return nil
					}
					row := reportRow{Domain: name}

					if f, ok := demoFixture(cfg, name); ok {
						row.Available = f.Status.Available
						row.StatusRaw = f.Status.StatusRaw
						row.Registrar = f.Record.Registrar
						row.ExpiresAt = f.Record.ExpiresAt
						if withPrices && len(f.Prices) > 0 {
							row.PriceUSD = f.Prices[0].PriceUSD
						}
						rows[i] = row
						return nil
					}

					st, err := cfg.status.Lookup(ctx, name)
					if err != nil {
						row.Error = err.Error()
						rows[i] = row
						return nil
					}
					row.Available = st.Available
					row.StatusRaw = st.StatusRaw

					if !st.Available {
						if rec, err := cfg.records.Lookup(ctx, name); err == nil {
							row.Registrar = rec.Registrar
							row.ExpiresAt = rec.ExpiresAt
						}
					}
					if withPrices {
						row.PriceUSD = cfg.prices.Lookup(ctx, name).PriceUSD
					}
					rows[i] = row
					return nil
				})
			}
			_ = grp.Wait()

			if availableOnly {
				filtered := rows[:0]
				for _, r := range rows {
					if r.Available {
						filtered = append(filtered, r)
					}
				}
				rows = filtered
			}

			if err := writeRows(os.Stdout, cfg.outFormat, rows); err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("failed to write output: %w", err), Cmd: cmd}
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(usageErr)
	cmd.Flags().BoolVar(&availableOnly, "available-only", false, "Only output available domains")
	cmd.Flags().BoolVar(&withPrices, "prices", false, "Include a registrar price for each domain")

	return cmd
}

func demoFixture(cfg *appConfig, name string) (demo.Fixture, bool) {
	if !cfg.env.DemoMode() {
		return demo.Fixture{}, false
	}
	return demo.Lookup(name)
}
