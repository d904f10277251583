// Package whois obtains a registration-record summary for a domain through a
// three-tier ordered fallback: structured RDAP endpoints per TLD, the raw
// port-43 registry protocol, and finally an HTML-scrape of a public WHOIS
// page. An all-empty record is a legitimate terminal state, not an error.
package whois

// Record is the reconciled registration summary. Every field is optional;
// "unknown" is a valid answer.
type Record struct {
	Registrar         string   `json:"registrar,omitempty"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	ExpiresAt         string   `json:"expiresAt,omitempty"`
	RegistrantCountry string   `json:"registrantCountry,omitempty"`
	Status            []string `json:"status,omitempty"`
}

func (r Record) Empty() bool {
	return r.Registrar == "" &&
		r.CreatedAt == "" &&
		r.ExpiresAt == "" &&
		r.RegistrantCountry == "" &&
		len(r.Status) == 0
}

// fillFrom copies other's fields into r's gaps. Existing values win: later
// tiers supplement earlier ones, never overwrite.
func (r Record) fillFrom(other Record) Record {
	if r.Registrar == "" {
		r.Registrar = other.Registrar
	}
	if r.CreatedAt == "" {
		r.CreatedAt = other.CreatedAt
	}
	if r.ExpiresAt == "" {
		r.ExpiresAt = other.ExpiresAt
	}
	if r.RegistrantCountry == "" {
		r.RegistrantCountry = other.RegistrantCountry
	}
	if len(r.Status) == 0 {
		r.Status = other.Status
	}
	return r
}

// CoreEmpty reports whether the headline fields are all missing. The scrape
// tier only runs in that case, and the read surface treats such a record as
// having no registration data at all.
func (r Record) CoreEmpty() bool {
	return r.Registrar == "" && r.CreatedAt == "" && r.ExpiresAt == ""
}
