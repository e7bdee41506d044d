// Package fetch retrieves single pages over HTTP under strict time and size
// budgets. One hostile or slow page must cost at most the configured timeout
// and byte ceiling; every failure is an ordinary error for the caller to
// record, never a fault.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds connect plus read for one request.
	DefaultTimeout = 4 * time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read before
	// decoding. The rest of the page is simply not considered.
	DefaultMaxBodyBytes = 700_000
	defaultRedirectHops = 5
)

// Client wraps http.Client with the per-fetch bounds this pipeline needs.
// The zero value is usable; fields override the defaults above.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds each request end to end.
	Timeout time.Duration
	// MaxBodyBytes truncates the response body before decoding.
	MaxBodyBytes int64
	// RedirectMaxHops caps redirect following to avoid loops.
	RedirectMaxHops int
}

// Get issues a GET and returns the body as UTF-8 text bytes. The body is
// truncated at MaxBodyBytes before charset decoding; invalid byte sequences
// are replaced rather than failing the fetch.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !isTextContentType(contentType) {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}

	maxBytes := c.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return decodeBody(raw, contentType), nil
}

// decodeBody converts the truncated body to UTF-8, sniffing the charset from
// the Content-Type header and the document itself. Decoding is best effort:
// when it cannot be set up, the raw bytes pass through unchanged.
func decodeBody(raw []byte, contentType string) []byte {
	r, err := charset.NewReader(strings.NewReader(string(raw)), contentType)
	if err != nil {
		return raw
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return raw
	}
	return decoded
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating the
		// caller's client.
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirectHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// isTextContentType admits HTML and plain text responses. Servers that omit
// the header entirely get the benefit of the doubt.
func isTextContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml") ||
		strings.HasPrefix(ct, "text/plain")
}
