package faviconcache

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/Borislavv/go-favicon-cache/config"
	"github.com/Borislavv/go-favicon-cache/internal/cachestore"
	"github.com/Borislavv/go-favicon-cache/internal/fetch"
	"github.com/Borislavv/go-favicon-cache/internal/guard"
	"github.com/Borislavv/go-favicon-cache/internal/resolve"
)

// ContentType is the fixed content type of every served icon. Format
// conversion is out of scope, the bytes are served as downloaded.
const ContentType = "image/x-icon"

type IconResolver interface {
	Resolve(ctx context.Context, domain string) Icon
	io.Closer
}

// Icon is a resolved favicon ready to serve. Body is never nil: unresolvable
// domains get the embedded fallback image, so the boundary layer never sees a
// hard error.
type Icon struct {
	Body        []byte
	ContentType string
	ETag        string
}

type Resolver struct {
	core    *resolve.Resolver
	sweeper *cachestore.Sweeper
	cls     context.CancelFunc
}

// New wires the resolution engine: one shared outbound HTTP client, the disk
// cache, the SSRF guard and the optional background sweeper. Construction
// fails only on an invalid blacklist pattern.
func New(ctx context.Context, cfg *config.Icons, logger *slog.Logger) (*Resolver, error) {
	cfg.AdjustConfig()
	ctx, cancel := context.WithCancel(ctx)

	g, err := guard.New(cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	store := cachestore.New(cfg, logger)
	fetcher := fetch.New(fetch.NewClient(cfg, g), g, logger)

	return &Resolver{
		core:    resolve.New(cfg, logger, store, g, fetcher),
		sweeper: cachestore.RunSweeper(ctx, cfg, store),
		cls:     cancel,
	}, nil
}

func (r *Resolver) Resolve(ctx context.Context, domain string) Icon {
	body := r.core.Resolve(ctx, domain)
	return Icon{Body: body, ContentType: ContentType, ETag: etag(body)}
}

func (r *Resolver) Close() error {
	r.cls()
	return nil
}

func etag(body []byte) string {
	return `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
}
