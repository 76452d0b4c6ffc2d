package fetch

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Borislavv/go-favicon-cache/config"
	"github.com/Borislavv/go-favicon-cache/internal/guard"
)

const maxRedirects = 5

var (
	errTooManyRedirects = errors.New("too many redirects")
	errRedirectBlocked  = errors.New("redirect target host is not allowed")
)

// NewClient builds the process-wide outbound HTTP client: one shared
// connection pool, a per-request timeout and a redirect policy that re-checks
// the guard on every hop. Construct once and inject; the client is read-only
// after construction.
func NewClient(cfg *config.Icons, g *guard.Guard) *http.Client {
	return &http.Client{
		Timeout: cfg.DownloadTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   cfg.DownloadTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: cfg.DownloadTimeout,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			if g.Blocked(req.Context(), req.URL.Hostname()) {
				return errRedirectBlocked
			}
			return nil
		},
	}
}

// Fixed browser-like header set attached to every outbound request. A browser
// user-agent makes most sites return their real page instead of a bot capture.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36 Edge/16.16299"

func decorate(req *http.Request, cookies string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
}
