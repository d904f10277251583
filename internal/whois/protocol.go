package whois

import (
	"context"
	"io"
	"net"
	"regexp"
	"strings"
	"time"
)

// Raw registry protocol (port 43): one plaintext query per connection, read
// until the peer closes. A root coordinator query may yield a referral to the
// authoritative host first.

const (
	defaultReferralTimeout = 5 * time.Second
	defaultQueryTimeout    = 7 * time.Second
)

type protocolClient struct {
	referralHost    string
	referralTimeout time.Duration
	queryTimeout    time.Duration
}

func newProtocolClient(referralHost string) *protocolClient {
	if referralHost == "" {
		referralHost = ianaWhoisHost
	}
	return &protocolClient{
		referralHost:    referralHost,
		referralTimeout: defaultReferralTimeout,
		queryTimeout:    defaultQueryTimeout,
	}
}

var referralLine = regexp.MustCompile(`(?im)^\s*(?:whois|refer):\s*(\S+)`)

// lookup queries the referral host for the authoritative server, then walks
// the candidate hosts in order. The first response carrying the
// "domain name:" marker is authoritative; failing that, the last response of
// any kind is parsed. answered reports whether any host responded at all.
func (c *protocolClient) lookup(ctx context.Context, name string, staticHosts []string) (rec Record, answered bool, lastErr error) {
	var hosts []string
	if c.referralHost != "" {
		if body, err := c.query(ctx, c.referralHost, name, c.referralTimeout); err == nil {
			answered = true
			if m := referralLine.FindStringSubmatch(body); m != nil {
				hosts = append(hosts, m[1])
			}
		} else {
			lastErr = err
		}
	}
	hosts = append(hosts, staticHosts...)

	var lastBody string
	seen := map[string]struct{}{}
	for _, h := range hosts {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}

		body, err := c.query(ctx, h, queryLine(h, name), c.queryTimeout)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		if body == "" {
			continue
		}
		lastBody = body
		if strings.Contains(strings.ToLower(body), "domain name:") {
			break
		}
	}

	if lastBody == "" {
		return Record{}, answered, lastErr
	}
	return parseProtocolText(lastBody), answered, lastErr
}

// query opens one connection, sends one line, and reads to EOF. The deadline
// covers dial, write and read; the connection is closed on every exit path.
func (c *protocolClient) query(ctx context.Context, host, line string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(attemptCtx, "tcp", hostPort(host))
	if err != nil {
		return "", err
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
		return "", err
	}
	b, err := io.ReadAll(io.LimitReader(conn, 1<<20))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// queryLine builds the protocol query; the verisign registry wants a
// "domain " prefix, everyone else takes the bare name.
func queryLine(host, name string) string {
	if strings.Contains(strings.ToLower(host), "verisign") {
		return "domain " + name
	}
	return name
}

func hostPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return net.JoinHostPort(host, "43")
}

// Labelled-line extraction. Registries format these lines inconsistently, so
// every label carries at least one synonym.
var (
	protoRegistrar = regexp.MustCompile(`(?im)^\s*(?:Registrar|Sponsoring Registrar):\s*(.+?)\s*$`)
	protoCreated   = regexp.MustCompile(`(?im)^\s*(?:Creation Date|Registered On):\s*(.+?)\s*$`)
	protoExpires   = regexp.MustCompile(`(?im)^\s*(?:Registry Expiry Date|Expiry Date):\s*(.+?)\s*$`)
	protoCountry   = regexp.MustCompile(`(?im)^\s*Registrant Country:\s*(.+?)\s*$`)
	protoStatus    = regexp.MustCompile(`(?im)^\s*(?:Domain Status|Status):\s*(.+?)\s*$`)
)

func parseProtocolText(text string) Record {
	first := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}

	rec := Record{
		Registrar:         first(protoRegistrar),
		CreatedAt:         first(protoCreated),
		ExpiresAt:         first(protoExpires),
		RegistrantCountry: first(protoCountry),
	}

	for _, m := range protoStatus.FindAllStringSubmatch(text, -1) {
		// Keep the status code, drop the trailing ICANN URL.
		if code := strings.Fields(m[1]); len(code) > 0 {
			rec.Status = append(rec.Status, code[0])
		}
	}
	return rec
}
