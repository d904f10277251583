package whois

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/benithors/domainscope/internal/domain"
	"github.com/benithors/domainscope/internal/fetch"
)

type Options struct {
	Fetch  *fetch.Client
	Logger *slog.Logger

	// Overrides for tests; production uses the built-in provider tables.
	RDAPEndpoints map[string][]string
	WHOISHosts    map[string][]string
	ReferralHost  string
	ScrapeBase    string
	NoProtocol    bool
	NoScrape      bool
}

type Aggregator struct {
	opts    Options
	fetch   *fetch.Client
	log     *slog.Logger
	proto   *protocolClient
	scraper *scraper
}

func NewAggregator(opts Options) *Aggregator {
	if opts.Fetch == nil {
		opts.Fetch = fetch.NewClient(fetch.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{
		opts:    opts,
		fetch:   opts.Fetch,
		log:     opts.Logger,
		proto:   newProtocolClient(opts.ReferralHost),
		scraper: newScraper(opts.Fetch, opts.ScrapeBase),
	}
}

// Lookup walks the three tiers in order, advancing only on failure or an
// empty result. An empty record with at least one successful upstream answer
// is a valid terminal state; an error is returned only when no source ever
// responded.
func (a *Aggregator) Lookup(ctx context.Context, name string) (Record, error) {
	tld := domain.TLD(name)

	rec, answered, lastErr := a.lookupStructured(ctx, name, tld)
	if !rec.Empty() {
		return rec, nil
	}

	if !a.opts.NoProtocol {
		protoRec, protoAnswered, protoErr := a.proto.lookup(ctx, name, whoisHostsFor(tld, a.opts.WHOISHosts))
		answered = answered || protoAnswered
		if protoErr != nil {
			lastErr = protoErr
		}
		rec = rec.fillFrom(protoRec)
		if !rec.CoreEmpty() {
			return rec, nil
		}
	}

	if !a.opts.NoScrape && rec.CoreEmpty() {
		scrapeRec, scrapeAnswered, scrapeErr := a.scraper.lookup(ctx, name)
		answered = answered || scrapeAnswered
		if scrapeErr != nil {
			lastErr = scrapeErr
		} else {
			// Scraped fields fill gaps left by earlier tiers.
			rec = rec.fillFrom(scrapeRec)
		}
	}

	if rec.Empty() && !answered && lastErr != nil {
		return Record{}, fmt.Errorf("registration lookup: %w", lastErr)
	}
	return rec, nil
}

// lookupStructured tries the ordered per-TLD RDAP endpoints. The first
// endpoint with an HTTP success and a non-all-empty parsed record wins;
// non-2xx answers and parse failures advance to the next candidate silently.
func (a *Aggregator) lookupStructured(ctx context.Context, name, tld string) (Record, bool, error) {
	var lastErr error
	answered := false

	for _, base := range rdapBasesFor(tld, a.opts.RDAPEndpoints) {
		u := base + url.PathEscape(name)
		code, body, err := a.getRaw(ctx, u)
		if err != nil {
			lastErr = err
			a.log.Debug("rdap candidate failed", "url", u, "error", err)
			continue
		}
		answered = true
		if code < 200 || code > 299 {
			a.log.Debug("rdap candidate non-2xx", "url", u, "code", code)
			continue
		}
		rec, err := parseRDAP(body)
		if err != nil {
			a.log.Debug("rdap candidate unparseable", "url", u, "error", err)
			continue
		}
		if rec.Empty() {
			continue
		}
		return rec, true, nil
	}
	return Record{}, answered, lastErr
}

func (a *Aggregator) getRaw(ctx context.Context, u string) (int, []byte, error) {
	header := http.Header{}
	header.Set("accept", "application/rdap+json, application/json")
	resp, err := a.fetch.Do(ctx, http.MethodGet, u, header, nil)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}
