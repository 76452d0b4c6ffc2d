package guard

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-favicon-cache/config"
	"log/slog"
	"net"
	"regexp"
)

// LookupFunc resolves a host name to its address set. Swappable in tests.
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// Guard decides whether an outbound host may be contacted. It must run before
// every fetch whose target host comes from requester- or server-supplied data:
// the bare domain, every followed redirect and every icon candidate host. A
// single upfront check is not enough because an attacker-controlled page can
// point candidates at internal hosts.
type Guard struct {
	blockNonGlobal bool
	blacklist      *regexp.Regexp
	lookup         LookupFunc
	logger         *slog.Logger
}

func New(cfg *config.Icons, logger *slog.Logger) (*Guard, error) {
	g := &Guard{
		blockNonGlobal: cfg.BlacklistNonGlobalIPs,
		lookup:         net.DefaultResolver.LookupIPAddr,
		logger:         logger,
	}

	if cfg.BlacklistRegex != "" {
		re, err := regexp.Compile(cfg.BlacklistRegex)
		if err != nil {
			return nil, fmt.Errorf("compile icon blacklist regex: %w", err)
		}
		g.blacklist = re
	}

	return g, nil
}

// Blocked reports whether host must not be contacted. A host is blocked when
// it resolves to at least one non-global address (if enabled) or when it
// matches the blacklist pattern. Resolution failure does not block: the
// network call will fail on its own later.
func (g *Guard) Blocked(ctx context.Context, host string) bool {
	if g.blockNonGlobal {
		if addrs, err := g.lookup(ctx, host); err == nil {
			for _, addr := range addrs {
				if !isGlobal(addr.IP) {
					g.logger.Warn("host resolves to a non-global ip",
						"host", host, "ip", addr.IP.String())
					return true
				}
			}
		}
	}

	if g.blacklist != nil && g.blacklist.MatchString(host) {
		g.logger.Warn("host matches the blacklist pattern",
			"host", host, "pattern", g.blacklist.String())
		return true
	}

	return false
}

func isGlobal(ip net.IP) bool {
	switch {
	case ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsMulticast(),
		ip.IsUnspecified():
		return false
	}
	return ip.IsGlobalUnicast()
}
