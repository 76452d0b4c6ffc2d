package cachestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Borislavv/go-favicon-cache/config"
)

// Sweeper periodically drops expired icons and negative markers from the cache
// directory so a long-running process does not accumulate stale files that are
// never read again. Without it expired entries are only cleaned up on read.
type Sweeper struct {
	store    *Store
	interval time.Duration
}

// RunSweeper starts the background sweep loop when a positive interval is
// configured. The loop stops when ctx is cancelled.
func RunSweeper(ctx context.Context, cfg *config.Icons, store *Store) *Sweeper {
	s := &Sweeper{store: store, interval: cfg.SweepInterval}
	if s.interval > 0 {
		go s.loop(ctx)
	}
	return s
}

func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			icons, markers := s.sweep()
			if icons > 0 || markers > 0 {
				log.Info().
					Int("icons", icons).
					Int("markers", markers).
					Str("dir", s.store.dir).
					Msg("[icon-cache] removed expired files")
			}
		}
	}
}

// sweep walks the cache dir once and removes every expired file. Returns the
// number of removed icons and markers.
func (s *Sweeper) sweep() (icons, markers int) {
	entries, err := os.ReadDir(s.store.dir)
	if err != nil {
		// Missing dir just means nothing was cached yet.
		if !os.IsNotExist(err) {
			log.Err(err).Str("dir", s.store.dir).Msg("[icon-cache] sweep read dir")
		}
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		var ttl time.Duration
		var marker bool
		switch {
		case strings.HasSuffix(entry.Name(), missSuffix):
			ttl, marker = s.store.negTTL, true
		case strings.HasSuffix(entry.Name(), iconSuffix):
			ttl = s.store.ttl
		default:
			continue
		}

		path := filepath.Join(s.store.dir, entry.Name())
		expired, err := s.store.fileExpired(path, ttl)
		if err != nil || !expired {
			continue
		}

		if err = os.Remove(path); err != nil {
			log.Err(err).Str("path", path).Msg("[icon-cache] sweep remove")
			continue
		}
		if marker {
			markers++
		} else {
			icons++
		}
	}

	return icons, markers
}
