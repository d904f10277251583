package whois

// Per-TLD provider tables. Each lookup walks the structured endpoints in
// order (with the generic service always appended), then the raw-protocol
// hosts. Declarative on purpose: adding a registry is a table edit, the
// fallback state machine never changes.

const (
	genericRDAPBase = "https://rdap.org/domain/"
	ianaWhoisHost   = "whois.iana.org"
)

var rdapBasesByTLD = map[string][]string{
	"com": {"https://rdap.verisign.com/com/v1/domain/"},
	"net": {"https://rdap.verisign.com/net/v1/domain/"},
	"org": {"https://rdap.publicinterestregistry.net/rdap/org/domain/"},
	"io":  {"https://rdap.nic.io/domain/"},
	"ai":  {"https://rdap.nic.ai/domain/"},
	"app": {"https://rdap.nic.google/domain/"},
	"dev": {"https://rdap.nic.google/domain/"},
	"co":  {"https://rdap.nic.co/domain/"},
}

var whoisHostsByTLD = map[string][]string{
	"com": {"whois.verisign-grs.com"},
	"net": {"whois.verisign-grs.com"},
	"org": {"whois.publicinterestregistry.net"},
	"io":  {"whois.nic.io"},
	"ai":  {"whois.nic.ai"},
	"app": {"whois.nic.google"},
	"dev": {"whois.nic.google"},
	"co":  {"whois.nic.co"},
}

func rdapBasesFor(tld string, overrides map[string][]string) []string {
	table := rdapBasesByTLD
	generic := genericRDAPBase
	if overrides != nil {
		table = overrides
		generic = ""
		if g, ok := overrides[""]; ok && len(g) > 0 {
			generic = g[0]
		}
	}
	bases := append([]string(nil), table[tld]...)
	if generic != "" {
		bases = append(bases, generic)
	}
	return bases
}

func whoisHostsFor(tld string, overrides map[string][]string) []string {
	table := whoisHostsByTLD
	if overrides != nil {
		table = overrides
	}
	return append([]string(nil), table[tld]...)
}
