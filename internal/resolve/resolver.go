package resolve

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Borislavv/go-favicon-cache/config"
	"github.com/Borislavv/go-favicon-cache/internal/assets"
	"github.com/Borislavv/go-favicon-cache/internal/cachestore"
	"github.com/Borislavv/go-favicon-cache/internal/extract"
	"github.com/Borislavv/go-favicon-cache/internal/fetch"
	"github.com/Borislavv/go-favicon-cache/internal/guard"
	"github.com/Borislavv/go-favicon-cache/internal/validate"
)

var (
	// ErrBlacklisted marks a domain rejected by the guard before any fetch.
	ErrBlacklisted = errors.New("domain is blacklisted")
	// ErrNoIcon marks a resolution where no candidate produced usable bytes.
	ErrNoIcon = errors.New("no icon candidate succeeded")
)

const (
	// maxCandidates caps how many candidates a single resolution tries.
	maxCandidates = 5
	// minDataURIBytes is the smallest plausible decoded image payload (the
	// smallest producible png is 67 bytes).
	minDataURIBytes = 67
)

// PageFetcher is the outbound side of a resolution, satisfied by fetch.Fetcher.
type PageFetcher interface {
	FetchPage(ctx context.Context, domain string) (*fetch.Page, error)
	FetchIcon(ctx context.Context, href, cookies string) ([]byte, error)
}

// Resolver composes validation, cache, guard, fetch and extraction into the
// end-to-end icon resolution. Resolve is infallible: every failure degrades to
// the embedded fallback icon, only the logs tell causes apart.
type Resolver struct {
	cfg     *config.Icons
	logger  *slog.Logger
	store   *cachestore.Store
	guard   *guard.Guard
	fetcher PageFetcher
	group   singleflight.Group
}

func New(cfg *config.Icons, logger *slog.Logger, store *cachestore.Store, g *guard.Guard, fetcher PageFetcher) *Resolver {
	return &Resolver{cfg: cfg, logger: logger, store: store, guard: g, fetcher: fetcher}
}

// Resolve returns the best available icon for domain, or the fallback icon.
func (r *Resolver) Resolve(ctx context.Context, domain string) []byte {
	if !validate.Domain(domain) {
		r.logger.Warn("invalid icon domain", "domain", domain)
		return assets.FallbackIcon
	}

	switch body, state := r.store.Get(domain); state {
	case cachestore.StateHit:
		return body
	case cachestore.StateNegative:
		return assets.FallbackIcon
	}

	if r.cfg.DisableDownload {
		return assets.FallbackIcon
	}

	// Concurrent resolutions of one domain share a single download. The disk
	// cache tolerates duplicate writes either way, this only spares the
	// redundant round-trips.
	body, err, _ := r.group.Do(domain, func() (any, error) {
		return r.download(ctx, domain)
	})
	if err != nil {
		r.logger.Error("icon download failed", "domain", domain, "error", err)
		r.store.PutMiss(domain)
		return assets.FallbackIcon
	}

	icon := body.([]byte)
	r.store.PutHit(domain, icon)
	return icon
}

// download runs the fetch pipeline: guard the bare domain, collect and rank
// candidates, then try the top ones in priority order until bytes land.
func (r *Resolver) download(ctx context.Context, domain string) ([]byte, error) {
	if r.guard.Blocked(ctx, domain) {
		return nil, fmt.Errorf("%s: %w", domain, ErrBlacklisted)
	}

	candidates, cookies := r.candidates(ctx, domain)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	for _, c := range candidates {
		if strings.HasPrefix(c.Href, "data:image") {
			body, err := decodeDataURI(c.Href)
			if err != nil {
				r.logger.Warn("unusable data uri candidate", "domain", domain, "error", err)
				continue
			}
			return body, nil
		}

		body, err := r.fetcher.FetchIcon(ctx, c.Href, cookies)
		if err != nil {
			r.logger.Debug("icon candidate failed", "href", c.Href, "error", err)
			continue
		}
		if len(body) == 0 {
			continue
		}

		r.logger.Info("downloaded icon", "domain", domain, "href", c.Href)
		return body, nil
	}

	return nil, fmt.Errorf("%s: %w", domain, ErrNoIcon)
}

// candidates collects the ranked icon list plus the cookie string captured
// from the page fetch. When the page is unreachable over both schemes the
// list degrades to blind /favicon.ico guesses so resolution can proceed.
func (r *Resolver) candidates(ctx context.Context, domain string) ([]extract.Candidate, string) {
	page, err := r.fetcher.FetchPage(ctx, domain)
	if err != nil {
		r.logger.Debug("page fetch failed, guessing blind", "domain", domain, "error", err)
		list := extract.Guesses(domain)
		extract.Rank(list)
		return list, ""
	}

	list := extract.FromPage(page)
	extract.Rank(list)
	return list, page.Cookies
}

func decodeDataURI(href string) ([]byte, error) {
	_, payload, found := strings.Cut(href, ",")
	if !found {
		return nil, errors.New("malformed data uri")
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	if len(body) < minDataURIBytes {
		return nil, fmt.Errorf("decoded payload too small: %d bytes", len(body))
	}
	return body, nil
}
