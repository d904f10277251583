package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/benithors/domainscope/internal/config"
	"github.com/benithors/domainscope/internal/fetch"
	"github.com/benithors/domainscope/internal/logging"
	"github.com/benithors/domainscope/internal/pricing"
	"github.com/benithors/domainscope/internal/status"
	"github.com/benithors/domainscope/internal/suggest"
	"github.com/benithors/domainscope/internal/whois"
)

type appConfig struct {
	Version string

	// Global flags.
	VersionFlag bool
	Format      string
	JSON        bool
	NDJSON      bool
	Plain       bool
	Timeout     time.Duration
	Concurrency int
	NoScrape    bool
	Quiet       bool
	Verbose     bool

	// Derived runtime state.
	env       config.Config
	outFormat outputFormat
	status    *status.Resolver
	records   *whois.Aggregator
	prices    *pricing.Client
	sugg      *suggest.Generator
}

func newRootCmd(ver string) *cobra.Command {
	cfg := &appConfig{Version: ver}

	root := &cobra.Command{
		Use:           "domainscope",
		Short:         "Aggregate availability, registration and pricing intel for domain names",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return &cliError{Code: 2, ShowUsage: true, Cmd: cmd}
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SetFlagErrorFunc(usageErr)

	pf := root.PersistentFlags()
	pf.BoolVar(&cfg.VersionFlag, "version", false, "Print version and exit")
	pf.StringVar(&cfg.Format, "format", "auto", "Output format: auto|table|ndjson|json|plain")
	pf.BoolVar(&cfg.JSON, "json", false, "Alias for --format json (single JSON array)")
	pf.BoolVar(&cfg.NDJSON, "ndjson", false, "Alias for --format ndjson (one JSON object per line)")
	pf.BoolVar(&cfg.Plain, "plain", false, "Alias for --format plain (stable tab-separated)")
	pf.DurationVar(&cfg.Timeout, "timeout", fetch.DefaultTimeout, "Per-request timeout (e.g. 8s, 2s)")
	pf.IntVar(&cfg.Concurrency, "concurrency", 8, "Max concurrent lookups")
	pf.BoolVar(&cfg.NoScrape, "no-scrape", false, "Disable the HTML-scrape registration fallback")
	pf.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress non-essential stderr output")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose stderr output (diagnostics)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfg.VersionFlag {
			fmt.Fprintf(os.Stdout, "domainscope %s (%s/%s)\n", cfg.Version, runtime.GOOS, runtime.GOARCH)
			return errExit0
		}

		formatStr := strings.ToLower(strings.TrimSpace(cfg.Format))
		if formatStr == "" {
			formatStr = "auto"
		}

		aliases := 0
		if cfg.JSON {
			aliases++
		}
		if cfg.NDJSON {
			aliases++
		}
		if cfg.Plain {
			aliases++
		}
		if aliases > 1 {
			return usageErr(cmd, fmt.Errorf("flags are mutually exclusive: --json, --ndjson, --plain"))
		}
		if formatStr != "auto" && aliases == 1 {
			return usageErr(cmd, fmt.Errorf("do not combine --format with --json/--ndjson/--plain"))
		}
		if cfg.JSON {
			formatStr = "json"
		}
		if cfg.NDJSON {
			formatStr = "ndjson"
		}
		if cfg.Plain {
			formatStr = "plain"
		}
		cfg.outFormat = resolveFormat(formatStr, os.Stdout)

		// A local .env is a convenience, not a requirement.
		_ = godotenv.Load()
		cfg.env = config.Load()
		if cfg.Timeout > 0 {
			cfg.env.Timeout = cfg.Timeout
		}
		if cfg.Verbose && !cfg.Quiet {
			cfg.env.Logging.Level = "debug"
		}
		if cfg.Quiet {
			cfg.env.Logging.Level = "error"
		}

		logger := logging.New(cfg.env.Logging)
		fetchClient := fetch.NewClient(fetch.Options{Timeout: cfg.env.Timeout})

		cfg.status = status.NewResolver(status.Options{
			Fetch:  fetchClient,
			APIKey: cfg.env.DomainrAPIKey,
		})
		cfg.records = whois.NewAggregator(whois.Options{
			Fetch:    fetchClient,
			Logger:   logger,
			NoScrape: cfg.NoScrape,
		})
		cfg.prices = pricing.NewClient(pricing.Options{
			Fetch:     fetchClient,
			APIKey:    cfg.env.GoDaddyAPIKey,
			APISecret: cfg.env.GoDaddyAPISecret,
		})
		cfg.sugg = suggest.NewGenerator(suggest.Options{
			Fetch:  fetchClient,
			APIKey: cfg.env.DomainrAPIKey,
		})

		return nil
	}

	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCheckCmd(cfg))
	root.AddCommand(newSuggestCmd(cfg))

	return root
}
