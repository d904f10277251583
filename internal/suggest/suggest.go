// Package suggest produces alternative domain name ideas for a search, either
// through the status API's search endpoint or, in demo mode, by expanding a
// keyword over curated TLD, prefix and suffix tables and probing each
// candidate for an existing registration.
package suggest

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/benithors/domainscope/internal/domain"
	"github.com/benithors/domainscope/internal/fetch"
	"github.com/benithors/domainscope/internal/status"
)

const (
	defaultSearchBaseURL = "https://api.domainr.com"

	// Candidate expansion is deliberately over-generated, then capped before
	// any network round-trip.
	maxCandidates  = 24
	maxSuggestions = 12

	verifyConcurrency = 8
)

type Suggestion struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
}

// Checker verifies one candidate. Demo-mode verification goes through the
// registration-record probe, so a failed check reads as unavailable.
type Checker interface {
	Lookup(ctx context.Context, name string) (status.DomainStatus, error)
}

type Options struct {
	Fetch *fetch.Client

	// APIKey for the search API; empty means demo mode (local expansion).
	APIKey string

	SearchBaseURL string

	// Checker used for demo-mode candidate verification. Defaults to a
	// keyless status resolver sharing Fetch.
	Checker Checker
}

type Generator struct {
	fetch         *fetch.Client
	apiKey        string
	searchBaseURL string
	checker       Checker
}

func NewGenerator(opts Options) *Generator {
	if opts.Fetch == nil {
		opts.Fetch = fetch.NewClient(fetch.Options{})
	}
	if opts.SearchBaseURL == "" {
		opts.SearchBaseURL = defaultSearchBaseURL
	}
	if opts.Checker == nil {
		opts.Checker = status.NewResolver(status.Options{Fetch: opts.Fetch})
	}
	return &Generator{
		fetch:         opts.Fetch,
		apiKey:        strings.TrimSpace(opts.APIKey),
		searchBaseURL: strings.TrimRight(opts.SearchBaseURL, "/"),
		checker:       opts.Checker,
	}
}

// Generate returns up to 12 suggestions for a name. In demo mode every
// returned suggestion has been verified available; the live search path
// reports each result's own availability token instead.
func (g *Generator) Generate(ctx context.Context, name string) ([]Suggestion, error) {
	if g.apiKey == "" {
		return g.expand(ctx, name)
	}

	u := fmt.Sprintf("%s/v2/search?query=%s&client_id=%s",
		g.searchBaseURL, url.QueryEscape(name), url.QueryEscape(g.apiKey))

	var decoded struct {
		Results []struct {
			Domain       string `json:"domain"`
			Host         string `json:"host"`
			Availability string `json:"availability"`
			Status       string `json:"status"`
		} `json:"results"`
	}
	code, err := g.fetch.GetJSON(ctx, u, nil, &decoded)
	if err != nil {
		return nil, fmt.Errorf("suggestion search: %w", err)
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("suggestion search: http %d", code)
	}

	out := make([]Suggestion, 0, maxSuggestions)
	for _, r := range decoded.Results {
		d := r.Domain
		if d == "" {
			d = r.Host
		}
		if d == "" {
			continue
		}
		token := r.Availability
		if token == "" {
			token = r.Status
		}
		if token == "" {
			token = "unknown"
		}
		out = append(out, Suggestion{Domain: d, Available: status.Classify(token)})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

var (
	candidateTLDs     = []string{"com", "net", "org", "io", "ai", "app", "dev", "co", "xyz", "site"}
	candidatePrefixes = []string{"", "get", "try", "join", "use", "go"}
	candidateSuffixes = []string{"", "app", "hq", "labs", "tech", "ai"}

	repeatedPrefix = regexp.MustCompile(`^(get|try|join|use|go){2,}`)
	candidateShape = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// expand derives a keyword from the name and fans verification out over the
// candidate list, preserving candidate order in the result.
func (g *Generator) expand(ctx context.Context, name string) ([]Suggestion, error) {
	candidates := Candidates(domain.Keyword(name))

	verdicts := make([]bool, len(candidates))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(verifyConcurrency)
	for i, d := range candidates {
		i, d := i, d
		grp.Go(func() error {
			st, err := g.checker.Lookup(gctx, d)
			verdicts[i] = err == nil && st.Available
			return nil
		})
	}
	_ = grp.Wait() // verification never errors; failures read as unavailable

	out := make([]Suggestion, 0, maxSuggestions)
	for i, d := range candidates {
		if !verdicts[i] {
			continue
		}
		out = append(out, Suggestion{Domain: d, Available: true})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// Candidates expands a keyword into at most 24 well-formed candidate domains:
// the bare keyword and its dash-stripped form under each TLD, prefixed forms
// with runs of stacked prefixes collapsed, and dash-joined suffixed forms.
// Order is deterministic and duplicates are dropped on first occurrence.
func Candidates(keyword string) []string {
	seen := make(map[string]struct{}, maxCandidates)
	out := make([]string, 0, maxCandidates)
	add := func(d string) {
		if len(out) == maxCandidates || !candidateShape.MatchString(d) {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	compact := strings.ReplaceAll(keyword, "-", "")
	for _, t := range candidateTLDs {
		add(keyword + "." + t)
		add(compact + "." + t)
		for _, p := range candidatePrefixes {
			add(repeatedPrefix.ReplaceAllString(p+keyword, "$1") + "." + t)
		}
		for _, s := range candidateSuffixes {
			if s == "" {
				add(keyword + "." + t)
				continue
			}
			add(keyword + "-" + s + "." + t)
		}
	}
	return out
}
