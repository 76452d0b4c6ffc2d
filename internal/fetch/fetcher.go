package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Borislavv/go-favicon-cache/internal/guard"
)

const (
	// MaxPageBytes caps the HTML body read. Only the head matters for icon
	// discovery, 512KB is more than enough.
	MaxPageBytes = 512 * 1024

	// maxIconBytes caps a downloaded icon body.
	maxIconBytes = 5 * 1024 * 1024
)

// ErrBlockedHost marks a fetch rejected by the SSRF guard before connecting.
var ErrBlockedHost = errors.New("host is not allowed")

// Fetcher performs all outbound HTTP for icon resolution through one shared
// client. Every target host passes the guard before a connection is made.
type Fetcher struct {
	client *http.Client
	guard  *guard.Guard
	logger *slog.Logger
}

func New(client *http.Client, g *guard.Guard, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, guard: g, logger: logger}
}

// FetchPage probes the domain's front page, https first and http as the
// fallback on any failure (connection, TLS, non-2xx status).
func (f *Fetcher) FetchPage(ctx context.Context, domain string) (*Page, error) {
	page, err := f.fetchPage(ctx, "https://"+domain)
	if err != nil {
		f.logger.Debug("https probe failed, falling back to http", "domain", domain, "error", err)
		if page, err = f.fetchPage(ctx, "http://"+domain); err != nil {
			return nil, fmt.Errorf("fetch page for %s: %w", domain, err)
		}
	}
	return page, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, rawURL string) (*Page, error) {
	resp, err := f.get(ctx, rawURL, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page body: %w", err)
	}

	return &Page{
		// The final URL, so relative hrefs resolve correctly after redirects
		// (gitlab.com redirects to about.gitlab.com for example).
		URL:     resp.Request.URL,
		Header:  resp.Header,
		Body:    body,
		Cookies: cookieString(resp.Header),
	}, nil
}

// FetchIcon downloads one icon candidate, re-checking the guard on its host
// and attaching the cookies captured from the originating page fetch.
func (f *Fetcher) FetchIcon(ctx context.Context, href, cookies string) ([]byte, error) {
	resp, err := f.get(ctx, href, cookies)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("read icon body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL, cookies string) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	if f.guard.Blocked(ctx, u.Hostname()) {
		return nil, fmt.Errorf("%s: %w", u.Hostname(), ErrBlockedHost)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	decorate(req, cookies)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", rawURL, resp.StatusCode)
	}

	return resp, nil
}
