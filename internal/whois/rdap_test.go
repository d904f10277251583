package whois

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRDAP_FullRecord(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
	  "status": ["client transfer prohibited", "client delete prohibited"],
	  "events": [
	    {"eventAction": "registration", "eventDate": "2015-04-16T00:00:00Z"},
	    {"eventAction": "last changed", "eventDate": "2023-01-01T00:00:00Z"},
	    {"eventAction": "expiration", "eventDate": "2032-04-16T00:00:00Z"}
	  ],
	  "entities": [
	    {
	      "roles": ["registrar"],
	      "vcardArray": ["vcard", [
	        ["version", {}, "text", "4.0"],
	        ["fn", {}, "text", "MarkMonitor Inc."]
	      ]]
	    },
	    {
	      "roles": ["registrant"],
	      "vcardArray": ["vcard", [
	        ["version", {}, "text", "4.0"],
	        ["adr", {}, "text", ["", "", "", "San Francisco", "CA", "", "US"]]
	      ]]
	    }
	  ]
	}`)

	got, err := parseRDAP(payload)
	if err != nil {
		t.Fatalf("parseRDAP: %v", err)
	}
	want := Record{
		Registrar:         "MarkMonitor Inc.",
		CreatedAt:         "2015-04-16T00:00:00Z",
		ExpiresAt:         "2032-04-16T00:00:00Z",
		RegistrantCountry: "US",
		Status:            []string{"client transfer prohibited", "client delete prohibited"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRDAP_NestedRegistrarCard(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
	  "entities": [
	    {
	      "roles": ["registrar"],
	      "entities": [
	        {"vcardArray": ["vcard", [["fn", {}, "text", "Example Registrar LLC"]]]}
	      ]
	    }
	  ]
	}`)

	got, err := parseRDAP(payload)
	if err != nil {
		t.Fatalf("parseRDAP: %v", err)
	}
	if got.Registrar != "Example Registrar LLC" {
		t.Fatalf("Registrar=%q, want nested fn value", got.Registrar)
	}
}

func TestParseRDAP_EmptyObject(t *testing.T) {
	t.Parallel()

	got, err := parseRDAP([]byte(`{}`))
	if err != nil {
		t.Fatalf("parseRDAP: %v", err)
	}
	if !got.Empty() {
		t.Fatalf("expected empty record, got %+v", got)
	}
}

func TestParseRDAP_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := parseRDAP([]byte(`<html>not json</html>`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRecord_FillFrom(t *testing.T) {
	t.Parallel()

	base := Record{Registrar: "Kept Registrar", Status: []string{"ok"}}
	got := base.fillFrom(Record{
		Registrar: "Discarded",
		CreatedAt: "2020-01-01",
		Status:    []string{"discarded"},
	})
	want := Record{Registrar: "Kept Registrar", CreatedAt: "2020-01-01", Status: []string{"ok"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fillFrom mismatch (-want +got):\n%s", diff)
	}
}
