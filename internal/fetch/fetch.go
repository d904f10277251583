// Package fetch is the single bounded-HTTP-call primitive every upstream
// client builds on: one request, one enforced deadline, cancellation visible
// to the in-flight call so sockets are released on every exit path.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const DefaultTimeout = 8 * time.Second

// maxBodyBytes bounds how much of any upstream response we are willing to
// read. Registry payloads are small; scrape pages can be large but never
// usefully larger than this.
const maxBodyBytes = 4 << 20

type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

type Options struct {
	Timeout   time.Duration
	UserAgent string

	// Transport overrides the default transport (tests).
	Transport http.RoundTripper
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "domainscope/1.0"
	}
	hc := &http.Client{}
	if opts.Transport != nil {
		hc.Transport = opts.Transport
	}
	return &Client{http: hc, timeout: opts.Timeout, userAgent: opts.UserAgent}
}

func (c *Client) Timeout() time.Duration { return c.timeout }

// Do issues a single request whose lifetime is capped by the client timeout
// (or an earlier parent cancellation). The returned response body carries the
// deadline's cancel func; closing the body releases it.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*http.Response, error) {
	return c.DoTimeout(ctx, method, url, header, body, c.timeout)
}

// DoTimeout is Do with a per-call deadline override.
func (c *Client) DoTimeout(ctx context.Context, method, url string, header http.Header, body []byte, timeout time.Duration) (*http.Response, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)

	var rd io.Reader
	if len(body) > 0 {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, url, rd)
	if err != nil {
		cancel()
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("user-agent") == "" {
		req.Header.Set("user-agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// GetJSON performs a bounded GET and, on a 2xx answer, decodes the body into
// v. It always returns the HTTP status code when a response was received;
// callers branch on the code for the 404-means-absent cases.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, v any) (int, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, header, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil
	}
	if v == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return resp.StatusCode, fmt.Errorf("fetch %s: decode: %w", url, err)
	}
	return resp.StatusCode, nil
}

// GetBody performs a bounded GET and returns the raw body for non-JSON
// upstreams (the scrape tier).
func (c *Client) GetBody(ctx context.Context, url string, header http.Header) (int, []byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, header, nil)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	return resp.StatusCode, b, nil
}

// IsTimeout reports whether err is a deadline-style failure rather than an
// upstream answering badly.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
