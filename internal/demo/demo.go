// Package demo holds canned lookup results for a handful of well-known
// domains. They let the read surface return rich, stable responses without
// any credentials configured, which keeps local development and docs
// screenshots deterministic.
package demo

import (
	"strings"

	"github.com/benithors/domainscope/internal/pricing"
	"github.com/benithors/domainscope/internal/status"
	"github.com/benithors/domainscope/internal/suggest"
	"github.com/benithors/domainscope/internal/whois"
)

// Fixture bundles every section of a domain report.
type Fixture struct {
	Status      status.DomainStatus
	Prices      []pricing.Price
	Record      whois.Record
	Suggestions []suggest.Suggestion
}

var fixtures = map[string]Fixture{
	"example.com": {
		Status: status.DomainStatus{Domain: "example.com", Available: false, StatusRaw: "active", TLD: "com"},
		Prices: []pricing.Price{
			{Registrar: "Namecheap", PriceUSD: 9.58, BuyURL: "https://www.namecheap.com/domains/registration/results/?domain=example.com"},
			{Registrar: "GoDaddy", PriceUSD: 12.99, BuyURL: "https://www.godaddy.com/domainsearch/find?checkAvail=1&tmskey=&domainToCheck=example.com"},
			{Registrar: "Google Domains", PriceUSD: 12.0, BuyURL: "https://domains.google.com/registrar/search?searchTerm=example.com"},
		},
		Record: whois.Record{
			Registrar:         "IANA",
			CreatedAt:         "1995-08-14T04:00:00Z",
			ExpiresAt:         "2025-08-13T04:00:00Z",
			RegistrantCountry: "US",
			Status:            []string{"active"},
		},
		Suggestions: []suggest.Suggestion{
			{Domain: "example.io", Available: true},
			{Domain: "myexample.app", Available: true},
			{Domain: "getexample.ai", Available: false},
		},
	},
	"openai.com": {
		Status: status.DomainStatus{Domain: "openai.com", Available: false, StatusRaw: "active", TLD: "com"},
		Prices: []pricing.Price{
			{Registrar: "Namecheap", PriceUSD: 9.58, BuyURL: "https://www.namecheap.com/domains/registration/results/?domain=openai.com"},
			{Registrar: "GoDaddy", PriceUSD: 12.99, BuyURL: "https://www.godaddy.com/domainsearch/find?checkAvail=1&tmskey=&domainToCheck=openai.com"},
			{Registrar: "Google Domains", PriceUSD: 12.0, BuyURL: "https://domains.google.com/registrar/search?searchTerm=openai.com"},
		},
		Record: whois.Record{
			Registrar:         "MarkMonitor Inc.",
			CreatedAt:         "2015-04-16T00:00:00Z",
			ExpiresAt:         "2032-04-16T00:00:00Z",
			RegistrantCountry: "US",
			Status:            []string{"active"},
		},
		Suggestions: []suggest.Suggestion{
			{Domain: "openai.io", Available: false},
			{Domain: "openai.ai", Available: false},
			{Domain: "openai.app", Available: false},
		},
	},
	"mycoolstartup.io": {
		Status: status.DomainStatus{Domain: "mycoolstartup.io", Available: true, StatusRaw: "available", TLD: "io"},
		Prices: []pricing.Price{
			{Registrar: "Namecheap", PriceUSD: 32.98, BuyURL: "https://www.namecheap.com/domains/registration/results/?domain=mycoolstartup.io"},
			{Registrar: "GoDaddy", PriceUSD: 49.99, BuyURL: "https://www.godaddy.com/domainsearch/find?checkAvail=1&tmskey=&domainToCheck=mycoolstartup.io"},
			{Registrar: "Google Domains", PriceUSD: 39.0, BuyURL: "https://domains.google.com/registrar/search?searchTerm=mycoolstartup.io"},
		},
		Record: whois.Record{},
		Suggestions: []suggest.Suggestion{
			{Domain: "mycoolstartup.app", Available: true},
			{Domain: "getmycoolstartup.com", Available: true},
			{Domain: "mycoolstartup.dev", Available: true},
		},
	},
}

// Lookup returns the fixture for a domain, if one exists.
func Lookup(name string) (Fixture, bool) {
	f, ok := fixtures[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Domains lists the fixture keys in no particular order.
func Domains() []string {
	out := make([]string, 0, len(fixtures))
	for d := range fixtures {
		out = append(out, d)
	}
	return out
}
