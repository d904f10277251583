// Package status decides availability for a single domain, either through a
// dedicated domain-status API or, in demo mode, a public registry-record
// probe. A status is always a value in demo mode; only the live API path can
// fail.
package status

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/benithors/domainscope/internal/domain"
	"github.com/benithors/domainscope/internal/fetch"
)

const (
	defaultStatusBaseURL = "https://api.domainr.com"
	defaultProbeBaseURL  = "https://rdap.org"
)

type DomainStatus struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	StatusRaw string `json:"statusRaw"`
	TLD       string `json:"tld"`
}

var availableTokens = regexp.MustCompile(`(?i)available|inactive|undelegated`)

// Classify maps a free-text status token to an availability verdict.
func Classify(token string) bool {
	return availableTokens.MatchString(token)
}

type Options struct {
	Fetch *fetch.Client

	// APIKey for the status API; empty means demo mode (record probe).
	APIKey string

	StatusBaseURL string
	ProbeBaseURL  string
}

type Resolver struct {
	fetch         *fetch.Client
	apiKey        string
	statusBaseURL string
	probeBaseURL  string
}

func NewResolver(opts Options) *Resolver {
	if opts.Fetch == nil {
		opts.Fetch = fetch.NewClient(fetch.Options{})
	}
	if opts.StatusBaseURL == "" {
		opts.StatusBaseURL = defaultStatusBaseURL
	}
	if opts.ProbeBaseURL == "" {
		opts.ProbeBaseURL = defaultProbeBaseURL
	}
	return &Resolver{
		fetch:         opts.Fetch,
		apiKey:        strings.TrimSpace(opts.APIKey),
		statusBaseURL: strings.TrimRight(opts.StatusBaseURL, "/"),
		probeBaseURL:  strings.TrimRight(opts.ProbeBaseURL, "/"),
	}
}

// Lookup resolves availability for one domain. In demo mode it never returns
// an error: probe failures map to a distinct StatusRaw instead.
func (r *Resolver) Lookup(ctx context.Context, name string) (DomainStatus, error) {
	tld := domain.TLD(name)
	if r.apiKey == "" {
		return r.probe(ctx, name, tld), nil
	}

	u := fmt.Sprintf("%s/v2/status?domain=%s&client_id=%s",
		r.statusBaseURL, url.QueryEscape(name), url.QueryEscape(r.apiKey))

	var decoded struct {
		Status []struct {
			Status string `json:"status"`
		} `json:"status"`
	}
	code, err := r.fetch.GetJSON(ctx, u, nil, &decoded)
	if err != nil {
		return DomainStatus{}, fmt.Errorf("status lookup: %w", err)
	}
	if code < 200 || code > 299 {
		return DomainStatus{}, fmt.Errorf("status lookup: http %d", code)
	}

	token := "unknown"
	if len(decoded.Status) > 0 && decoded.Status[0].Status != "" {
		token = decoded.Status[0].Status
	}
	return DomainStatus{
		Domain:    name,
		Available: Classify(token),
		StatusRaw: token,
		TLD:       tld,
	}, nil
}

// probe checks for an existing registration record. Absence (404) means
// available; presence means taken; a failed probe is not evidence of
// availability and surfaces as a "timeout"/"error_<code>" StatusRaw.
func (r *Resolver) probe(ctx context.Context, name, tld string) DomainStatus {
	u := r.probeBaseURL + "/domain/" + url.PathEscape(name)

	var decoded struct {
		Status []string `json:"status"`
	}
	code, err := r.fetch.GetJSON(ctx, u, nil, &decoded)
	if err != nil {
		return DomainStatus{Domain: name, Available: false, StatusRaw: "timeout", TLD: tld}
	}
	switch {
	case code == http.StatusNotFound:
		return DomainStatus{Domain: name, Available: true, StatusRaw: "not found", TLD: tld}
	case code < 200 || code > 299:
		return DomainStatus{Domain: name, Available: false, StatusRaw: fmt.Sprintf("error_%d", code), TLD: tld}
	}

	raw := strings.Join(decoded.Status, ", ")
	if raw == "" {
		raw = "active"
	}
	return DomainStatus{Domain: name, Available: false, StatusRaw: raw, TLD: tld}
}
