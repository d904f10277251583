package whois

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/benithors/domainscope/internal/fetch"
)

// HTML-scrape fallback: a public WHOIS lookup page reduced to plain text.
// Once markup is stripped there are no line breaks left, so the patterns are
// bounded by the labels known to sit next to each field.

const defaultScrapeBase = "https://www.godaddy.com/whois/results.aspx?domain="

type scraper struct {
	fetch *fetch.Client
	base  string
}

func newScraper(f *fetch.Client, base string) *scraper {
	if base == "" {
		base = defaultScrapeBase
	}
	return &scraper{fetch: f, base: base}
}

func (s *scraper) lookup(ctx context.Context, name string) (Record, bool, error) {
	header := http.Header{}
	header.Set("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114 Safari/537.36")
	header.Set("accept-language", "en-US,en;q=0.9")

	code, body, err := s.fetch.GetBody(ctx, s.base+url.QueryEscape(name), header)
	if err != nil {
		return Record{}, false, err
	}
	if code < 200 || code > 299 {
		return Record{}, true, nil
	}
	return parseScrapedText(stripHTML(string(body))), true, nil
}

var (
	scriptBlocks = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleBlocks  = regexp.MustCompile(`(?is)<style.*?</style>`)
	htmlTags     = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

func stripHTML(html string) string {
	txt := scriptBlocks.ReplaceAllString(html, " ")
	txt = styleBlocks.ReplaceAllString(txt, " ")
	txt = htmlTags.ReplaceAllString(txt, " ")
	txt = strings.ReplaceAll(txt, "&nbsp;", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(txt, " "))
}

var (
	scrapeRegistrar = regexp.MustCompile(`(?i)Registrar:?\s*(.*?)\s*(?:Registered On:|Creation Date:|Updated On:|Expires On:|Registry Expiry Date:|Status:|$)`)
	scrapeCreated   = regexp.MustCompile(`(?i)(?:Registered On:|Creation Date:)\s*(.*?)\s*(?:Updated On:|Expires On:|Registry Expiry Date:|Status:|$)`)
	scrapeExpires   = regexp.MustCompile(`(?i)(?:Expires On:|Registry Expiry Date:)\s*(.*?)\s*(?:Status:|$)`)
	scrapeCountry   = regexp.MustCompile(`(?i)Registrant Country:?\s*([A-Za-z]{2})`)
	scrapeStatus    = regexp.MustCompile(`(?i)Status:?\s*(.*?)\s*(?:DNSSEC:|Name Server:|$)`)
)

func parseScrapedText(txt string) Record {
	first := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(txt); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}

	rec := Record{
		Registrar:         first(scrapeRegistrar),
		CreatedAt:         first(scrapeCreated),
		ExpiresAt:         first(scrapeExpires),
		RegistrantCountry: strings.ToUpper(first(scrapeCountry)),
	}
	if line := first(scrapeStatus); line != "" {
		rec.Status = strings.Fields(line)
	}
	return rec
}
