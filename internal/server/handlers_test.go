package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/benithors/domainscope/internal/pricing"
	"github.com/benithors/domainscope/internal/status"
	"github.com/benithors/domainscope/internal/suggest"
	"github.com/benithors/domainscope/internal/whois"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStatus struct {
	st  status.DomainStatus
	err error
}

func (f fakeStatus) Lookup(context.Context, string) (status.DomainStatus, error) {
	return f.st, f.err
}

type fakeRecords struct {
	rec whois.Record
	err error
}

func (f fakeRecords) Lookup(context.Context, string) (whois.Record, error) {
	return f.rec, f.err
}

type fakePrices struct {
	p pricing.Price
}

func (f fakePrices) Lookup(context.Context, string) pricing.Price {
	return f.p
}

type fakeSuggest struct {
	out []suggest.Suggestion
	err error
}

func (f fakeSuggest) Generate(context.Context, string) ([]suggest.Suggestion, error) {
	return f.out, f.err
}

func testServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Status == nil {
		opts.Status = fakeStatus{st: status.DomainStatus{Domain: "example.com", TLD: "com"}}
	}
	if opts.Records == nil {
		opts.Records = fakeRecords{rec: whois.Record{Registrar: "Fake Registrar"}}
	}
	if opts.Prices == nil {
		opts.Prices = fakePrices{p: pricing.Price{Registrar: "GoDaddy", PriceUSD: 12.99}}
	}
	if opts.Suggest == nil {
		opts.Suggest = fakeSuggest{out: []suggest.Suggestion{{Domain: "example.io", Available: true}}}
	}
	return New(opts)
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestMissingParams(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{})
	for _, target := range []string{
		"/api/v1/domain/status",
		"/api/v1/domain/whois",
		"/api/v1/domain/suggestions",
		"/api/v1/domain/report",
		"/api/v1/domain/prices", // missing tld
	} {
		if w := doGet(t, s, target); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: code=%d, want 400", target, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	if w := doGet(t, testServer(t, Options{}), "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{
		Status: fakeStatus{st: status.DomainStatus{Domain: "example.com", Available: false, StatusRaw: "active", TLD: "com"}},
	})
	w := doGet(t, s, "/api/v1/domain/status?name=example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d: %s", w.Code, w.Body.String())
	}
	var got status.DomainStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.StatusRaw != "active" || got.TLD != "com" {
		t.Fatalf("got %+v", got)
	}
}

func TestStatusEndpoint_LookupFailure(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{Status: fakeStatus{err: fmt.Errorf("upstream down")}})
	w := doGet(t, s, "/api/v1/domain/status?name=example.com")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d, want 500", w.Code)
	}
}

func TestWhoisEndpoint_CoreEmptyIs502(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{
		Records: fakeRecords{rec: whois.Record{RegistrantCountry: "US", Status: []string{"ok"}}},
	})
	w := doGet(t, s, "/api/v1/domain/whois?name=example.com")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("code=%d, want 502 for record without headline fields", w.Code)
	}
}

func TestPricesEndpoint(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{})

	w := doGet(t, s, "/api/v1/domain/prices?tld=com")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	var empty []pricing.Price
	if err := json.Unmarshal(w.Body.Bytes(), &empty); err != nil || len(empty) != 0 {
		t.Fatalf("tld-only request: body=%s err=%v", w.Body.String(), err)
	}

	w = doGet(t, s, "/api/v1/domain/prices?tld=com&name=example.com")
	var got []pricing.Price
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].PriceUSD != 12.99 {
		t.Fatalf("got %+v", got)
	}
}

func TestDemoFixturesWinInDemoMode(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{
		DemoMode: true,
		Status:   fakeStatus{err: fmt.Errorf("must not be called")},
	})
	w := doGet(t, s, "/api/v1/domain/status?name=example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d: %s", w.Code, w.Body.String())
	}
	var got status.DomainStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Available || got.StatusRaw != "active" {
		t.Fatalf("got %+v, want canned example.com status", got)
	}
}

func TestDemoFixturesSkippedForUnknownDomains(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{
		DemoMode: true,
		Status:   fakeStatus{st: status.DomainStatus{Domain: "other.dev", Available: true, StatusRaw: "not found", TLD: "dev"}},
	})
	w := doGet(t, s, "/api/v1/domain/status?name=other.dev")
	var got status.DomainStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Available {
		t.Fatalf("got %+v, want resolver result", got)
	}
}

func TestReportEndpoint_PartialDegradation(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{
		Suggest: fakeSuggest{err: fmt.Errorf("search down")},
	})
	w := doGet(t, s, "/api/v1/domain/report?name=example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d, want 200 despite a failed section", w.Code)
	}
	var rep Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Status == nil || rep.Whois == nil || len(rep.Prices) != 1 {
		t.Fatalf("healthy sections missing: %+v", rep)
	}
	if rep.Errors["suggestions"] == "" {
		t.Fatalf("expected suggestions section error, got %+v", rep.Errors)
	}
}

func TestReportEndpoint_DemoFixture(t *testing.T) {
	t.Parallel()

	s := testServer(t, Options{DemoMode: true})
	w := doGet(t, s, "/api/v1/domain/report?name=mycoolstartup.io")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	var rep Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Status == nil || !rep.Status.Available {
		t.Fatalf("status=%+v", rep.Status)
	}
	if rep.Whois != nil {
		t.Fatalf("whois=%+v, want omitted for a domain with no registration data", rep.Whois)
	}
	if len(rep.Suggestions) != 3 {
		t.Fatalf("suggestions=%+v", rep.Suggestions)
	}
}
