package whois

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

// serveWhois runs a one-shot port-43-style server on a loopback port: accept,
// read the query line, answer via respond, close.
func serveWhois(t *testing.T, respond func(query string) string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				_ = c.SetDeadline(time.Now().Add(2 * time.Second))
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				_, _ = c.Write([]byte(respond(strings.TrimSpace(line))))
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestProtocolLookup_ReferralThenAuthoritative(t *testing.T) {
	t.Parallel()

	authoritative := serveWhois(t, func(q string) string {
		if q != "example.com" {
			t.Errorf("authoritative query=%q, want bare domain", q)
		}
		return "Domain Name: EXAMPLE.COM\r\n" +
			"Registrar: Example Registrar Inc.\r\n" +
			"Creation Date: 1995-08-14T04:00:00Z\r\n" +
			"Registry Expiry Date: 2025-08-13T04:00:00Z\r\n" +
			"Registrant Country: US\r\n" +
			"Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited\r\n" +
			"Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited\r\n"
	})
	referral := serveWhois(t, func(q string) string {
		return "% IANA WHOIS server\r\nrefer:        " + authoritative + "\r\n"
	})

	c := newProtocolClient(referral)
	rec, answered, _ := c.lookup(context.Background(), "example.com", nil)
	if !answered {
		t.Fatalf("answered=false")
	}
	if rec.Registrar != "Example Registrar Inc." {
		t.Fatalf("Registrar=%q", rec.Registrar)
	}
	if rec.CreatedAt != "1995-08-14T04:00:00Z" || rec.ExpiresAt != "2025-08-13T04:00:00Z" {
		t.Fatalf("dates=%q/%q", rec.CreatedAt, rec.ExpiresAt)
	}
	if rec.RegistrantCountry != "US" {
		t.Fatalf("RegistrantCountry=%q", rec.RegistrantCountry)
	}
	if len(rec.Status) != 2 || rec.Status[0] != "clientTransferProhibited" {
		t.Fatalf("Status=%v, want status codes without URLs", rec.Status)
	}
}

func TestProtocolLookup_MarkerStopsHostWalk(t *testing.T) {
	t.Parallel()

	second := 0
	noAnswer := serveWhois(t, func(q string) string {
		return "No match for \"MYCOOLSTARTUP.IO\"\r\n"
	})
	withMarker := serveWhois(t, func(q string) string {
		return "Domain Name: mycoolstartup.io\r\nRegistrar: First Host Registrar\r\n"
	})
	never := serveWhois(t, func(q string) string {
		second++
		return "Registrar: Should Not Be Reached\r\n"
	})

	c := newProtocolClient("")
	c.referralHost = "" // no referral hop in this test
	rec, answered, _ := c.lookup(context.Background(), "mycoolstartup.io", []string{noAnswer, withMarker, never})
	if !answered {
		t.Fatalf("answered=false")
	}
	if rec.Registrar != "First Host Registrar" {
		t.Fatalf("Registrar=%q, want marker host to win", rec.Registrar)
	}
	if second != 0 {
		t.Fatalf("third host was queried %d times after authoritative answer", second)
	}
}

func TestQueryLine_VerisignPrefix(t *testing.T) {
	t.Parallel()

	if got := queryLine("whois.verisign-grs.com", "example.com"); got != "domain example.com" {
		t.Fatalf("queryLine=%q", got)
	}
	if got := queryLine("whois.nic.io", "example.io"); got != "example.io" {
		t.Fatalf("queryLine=%q", got)
	}
}

func TestParseProtocolText_Synonyms(t *testing.T) {
	t.Parallel()

	rec := parseProtocolText("Sponsoring Registrar: Legacy Registrar\r\n" +
		"Registered On: 2001-02-03\r\n" +
		"Expiry Date: 2031-02-03\r\n" +
		"Status: ok\r\n")
	if rec.Registrar != "Legacy Registrar" {
		t.Fatalf("Registrar=%q", rec.Registrar)
	}
	if rec.CreatedAt != "2001-02-03" || rec.ExpiresAt != "2031-02-03" {
		t.Fatalf("dates=%q/%q", rec.CreatedAt, rec.ExpiresAt)
	}
	if len(rec.Status) != 1 || rec.Status[0] != "ok" {
		t.Fatalf("Status=%v", rec.Status)
	}
}

func TestProtocolQuery_Timeout(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		// Accept and hang without answering.
		defer conn.Close()
		time.Sleep(2 * time.Second)
	}()

	c := newProtocolClient("")
	_, err = c.query(context.Background(), ln.Addr().String(), "example.com", 100*time.Millisecond)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}
