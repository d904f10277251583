// Package server exposes the domain report sections over HTTP: status,
// registration record, registrar prices and name suggestions, plus a combined
// report endpoint that composes all four concurrently.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benithors/domainscope/internal/pricing"
	"github.com/benithors/domainscope/internal/status"
	"github.com/benithors/domainscope/internal/suggest"
	"github.com/benithors/domainscope/internal/whois"
)

// StatusResolver answers availability for one domain.
type StatusResolver interface {
	Lookup(ctx context.Context, name string) (status.DomainStatus, error)
}

// RecordAggregator answers the registration-record summary for one domain.
type RecordAggregator interface {
	Lookup(ctx context.Context, name string) (whois.Record, error)
}

// PriceClient answers the canonical price row for one domain. It degrades
// internally and never fails.
type PriceClient interface {
	Lookup(ctx context.Context, name string) pricing.Price
}

// SuggestionGenerator answers alternative-name ideas for one domain.
type SuggestionGenerator interface {
	Generate(ctx context.Context, name string) ([]suggest.Suggestion, error)
}

type Options struct {
	Logger *slog.Logger

	// DemoMode serves canned fixtures for known domains before any resolver
	// is consulted.
	DemoMode bool

	Status  StatusResolver
	Records RecordAggregator
	Prices  PriceClient
	Suggest SuggestionGenerator
}

type Server struct {
	log    *slog.Logger
	demo   bool
	status StatusResolver
	whois  RecordAggregator
	prices PriceClient
	sugg   SuggestionGenerator

	router *gin.Engine
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		log:    opts.Logger,
		demo:   opts.DemoMode,
		status: opts.Status,
		whois:  opts.Records,
		prices: opts.Prices,
		sugg:   opts.Suggest,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	v1 := router.Group("/api/v1/domain")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/whois", s.handleWhois)
		v1.GET("/prices", s.handlePrices)
		v1.GET("/suggestions", s.handleSuggestions)
		v1.GET("/report", s.handleReport)
	}
	s.router = router
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
