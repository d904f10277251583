package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/benithors/domainscope/internal/demo"
	"github.com/benithors/domainscope/internal/domain"
	"github.com/benithors/domainscope/internal/pricing"
	"github.com/benithors/domainscope/internal/status"
	"github.com/benithors/domainscope/internal/suggest"
	"github.com/benithors/domainscope/internal/whois"
)

const errLookupFailed = "Lookup failed"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireName normalizes the ?name= parameter, writing the 400 itself when
// the parameter is missing or unusable.
func (s *Server) requireName(c *gin.Context) (string, bool) {
	raw := c.Query("name")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return "", false
	}
	name, err := domain.Normalize(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
		return "", false
	}
	return name, true
}

func (s *Server) fixture(name string) (demo.Fixture, bool) {
	if !s.demo {
		return demo.Fixture{}, false
	}
	return demo.Lookup(name)
}

func (s *Server) handleStatus(c *gin.Context) {
	name, ok := s.requireName(c)
	if !ok {
		return
	}
	if f, ok := s.fixture(name); ok {
		c.JSON(http.StatusOK, f.Status)
		return
	}

	st, err := s.status.Lookup(c.Request.Context(), name)
	if err != nil {
		s.log.Warn("status lookup failed", "domain", name, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errLookupFailed + ": " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleWhois(c *gin.Context) {
	name, ok := s.requireName(c)
	if !ok {
		return
	}
	if f, ok := s.fixture(name); ok {
		s.writeRecord(c, f.Record)
		return
	}

	rec, err := s.whois.Lookup(c.Request.Context(), name)
	if err != nil {
		s.log.Warn("whois lookup failed", "domain", name, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errLookupFailed})
		return
	}
	s.writeRecord(c, rec)
}

// writeRecord maps a core-empty record to 502: every tier answered, none had
// registration data to offer.
func (s *Server) writeRecord(c *gin.Context, rec whois.Record) {
	if rec.CoreEmpty() {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no registration data found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handlePrices(c *gin.Context) {
	if c.Query("tld") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tld"})
		return
	}
	raw := c.Query("name")
	if raw == "" {
		c.JSON(http.StatusOK, []pricing.Price{})
		return
	}
	name, err := domain.Normalize(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
		return
	}
	if f, ok := s.fixture(name); ok {
		c.JSON(http.StatusOK, f.Prices)
		return
	}
	c.JSON(http.StatusOK, []pricing.Price{s.prices.Lookup(c.Request.Context(), name)})
}

func (s *Server) handleSuggestions(c *gin.Context) {
	name, ok := s.requireName(c)
	if !ok {
		return
	}
	if f, ok := s.fixture(name); ok {
		c.JSON(http.StatusOK, f.Suggestions)
		return
	}

	out, err := s.sugg.Generate(c.Request.Context(), name)
	if err != nil {
		s.log.Warn("suggestion lookup failed", "domain", name, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errLookupFailed})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Report is the combined response of every section. Sections that failed are
// omitted and named in Errors; one bad upstream never sinks the whole report.
type Report struct {
	Domain      string               `json:"domain"`
	Status      *status.DomainStatus `json:"status,omitempty"`
	Whois       *whois.Record        `json:"whois,omitempty"`
	Prices      []pricing.Price      `json:"prices"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Errors      map[string]string    `json:"errors,omitempty"`
}

func (s *Server) handleReport(c *gin.Context) {
	name, ok := s.requireName(c)
	if !ok {
		return
	}

	rep := Report{
		Domain:      name,
		Prices:      []pricing.Price{},
		Suggestions: []suggest.Suggestion{},
		Errors:      map[string]string{},
	}

	if f, ok := s.fixture(name); ok {
		rep.Status = &f.Status
		if !f.Record.CoreEmpty() {
			rec := f.Record
			rep.Whois = &rec
		}
		rep.Prices = f.Prices
		rep.Suggestions = f.Suggestions
		rep.Errors = nil
		c.JSON(http.StatusOK, rep)
		return
	}

	ctx := c.Request.Context()
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	fail := func(section string, err error) {
		s.log.Warn("report section failed", "section", section, "domain", name, "err", err)
		mu.Lock()
		rep.Errors[section] = err.Error()
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		st, err := s.status.Lookup(ctx, name)
		if err != nil {
			fail("status", err)
			return
		}
		rep.Status = &st
	}()
	go func() {
		defer wg.Done()
		rec, err := s.whois.Lookup(ctx, name)
		if err != nil {
			fail("whois", err)
			return
		}
		if !rec.CoreEmpty() {
			rep.Whois = &rec
		}
	}()
	go func() {
		defer wg.Done()
		rep.Prices = []pricing.Price{s.prices.Lookup(ctx, name)}
	}()
	go func() {
		defer wg.Done()
		out, err := s.sugg.Generate(ctx, name)
		if err != nil {
			fail("suggestions", err)
			return
		}
		rep.Suggestions = out
	}()
	wg.Wait()

	if len(rep.Errors) == 0 {
		rep.Errors = nil
	}
	c.JSON(http.StatusOK, rep)
}
