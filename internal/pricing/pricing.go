// Package pricing turns a registrar's pricing API, three endpoint variants
// that disagree on field names and unit scale, into one canonical price row.
// It degrades to a zero-price placeholder instead of failing: a zero PriceUSD
// is the sentinel for "real price unavailable", never a free domain.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/benithors/domainscope/internal/fetch"
)

const (
	defaultBaseURL   = "https://api.godaddy.com"
	defaultRegistrar = "GoDaddy"
)

type Price struct {
	Registrar string  `json:"registrar"`
	PriceUSD  float64 `json:"priceUsd"`
	BuyURL    string  `json:"buyUrl"`
}

type Options struct {
	Fetch *fetch.Client

	APIKey    string
	APISecret string
	BaseURL   string
	Registrar string
}

type Client struct {
	fetch     *fetch.Client
	key       string
	secret    string
	baseURL   string
	registrar string
}

func NewClient(opts Options) *Client {
	if opts.Fetch == nil {
		opts.Fetch = fetch.NewClient(fetch.Options{})
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Registrar == "" {
		opts.Registrar = defaultRegistrar
	}
	return &Client{
		fetch:     opts.Fetch,
		key:       strings.TrimSpace(opts.APIKey),
		secret:    strings.TrimSpace(opts.APISecret),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		registrar: opts.Registrar,
	}
}

func (c *Client) hasCredentials() bool {
	return c.key != "" && c.secret != ""
}

// Lookup returns the canonical price row for a domain. Endpoint variants are
// tried in order; the first strictly positive normalized price wins. Every
// failure path lands on the zero-price placeholder.
func (c *Client) Lookup(ctx context.Context, name string) Price {
	placeholder := Price{
		Registrar: c.registrar,
		PriceUSD:  0,
		BuyURL:    BuyURL(c.registrar, name),
	}
	if !c.hasCredentials() {
		return placeholder
	}

	header := http.Header{}
	header.Set("authorization", fmt.Sprintf("sso-key %s:%s", c.key, c.secret))
	header.Set("accept", "application/json")
	header.Set("x-market-id", "en-US")

	d := url.QueryEscape(name)
	variants := []string{
		c.baseURL + "/v2/domains/available?domain=" + d + "&checkType=FAST&forTransfer=false",
		c.baseURL + "/v1/domains/available?domain=" + d + "&checkType=FAST&forTransfer=false",
		c.baseURL + "/v1/domains/price?domain=" + d + "&currency=USD",
	}

	for _, u := range variants {
		var raw json.RawMessage
		code, err := c.fetch.GetJSON(ctx, u, header, &raw)
		if err != nil || code < 200 || code > 299 {
			continue
		}
		if usd := Normalize(extractAmount(raw)); usd > 0 {
			return Price{Registrar: c.registrar, PriceUSD: usd, BuyURL: BuyURL(c.registrar, name)}
		}
	}
	return placeholder
}

// priceFields is the common shape the variant payloads reduce to.
type priceFields struct {
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`
	Amount        float64 `json:"amount"`
}

func (p priceFields) amount() float64 {
	for _, v := range []float64{p.Price, p.PurchasePrice, p.SalePrice, p.Amount} {
		if v != 0 {
			return v
		}
	}
	return 0
}

// extractAmount tolerates the three known payload shapes: an object with a
// nested domains list, a bare array of items, or a flat object.
func extractAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var list []priceFields
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return 0
		}
		return list[0].amount()
	}

	var nested struct {
		Domains []priceFields `json:"domains"`
		priceFields
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return 0
	}
	if len(nested.Domains) > 0 {
		return nested.Domains[0].amount()
	}
	return nested.amount()
}

// Normalize reduces a numeric price of unknown unit to whole USD: micro-units
// (≥100000) divide by 1e6, minor units (≥100) divide by 100, small values are
// taken as already-whole currency. Non-finite or non-positive means unknown.
func Normalize(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0
	}
	switch {
	case n >= 100000:
		return n / 1_000_000
	case n >= 100:
		return n / 100
	default:
		return n
	}
}

var buyURLTemplates = []struct {
	substr   string
	template string
}{
	{"godaddy", "https://www.godaddy.com/domainsearch/find?checkAvail=1&tmskey=&domainToCheck=%s"},
	{"namecheap", "https://www.namecheap.com/domains/registration/results/?domain=%s"},
	{"google", "https://domains.google.com/registrar/search?searchTerm=%s"},
}

// BuyURL maps a registrar display name to its domain-search URL, falling back
// to a generic web search when the registrar is unrecognized.
func BuyURL(registrar, name string) string {
	r := strings.ToLower(registrar)
	d := url.QueryEscape(name)
	for _, t := range buyURLTemplates {
		if strings.Contains(r, t.substr) {
			return fmt.Sprintf(t.template, d)
		}
	}
	return "https://duckduckgo.com/?q=" + d + "+domain+registration"
}
