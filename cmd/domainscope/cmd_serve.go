package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/benithors/domainscope/internal/logging"
	"github.com/benithors/domainscope/internal/server"
)

func newServeCmd(cfg *appConfig) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP read surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = ":" + cfg.env.Port
			}

			logger := logging.New(cfg.env.Logging)
			if !cfg.Verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := server.New(server.Options{
				Logger:   logger,
				DemoMode: cfg.env.DemoMode(),
				Status:   cfg.status,
				Records:  cfg.records,
				Prices:   cfg.prices,
				Suggest:  cfg.sugg,
			})
			if cfg.env.DemoMode() {
				logger.Info("no status API key configured, serving demo fixtures and registry probes")
			}

			if err := srv.Run(cmd.Context(), addr); err != nil && err != http.ErrServerClosed {
				return &cliError{Code: 1, Err: fmt.Errorf("server: %w", err), Cmd: cmd}
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(usageErr)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to :$PORT)")

	return cmd
}
