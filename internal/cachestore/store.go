package cachestore

import (
	"github.com/Borislavv/go-favicon-cache/config"
	"github.com/benbjohnson/clock"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	iconSuffix = ".png"
	missSuffix = ".png.miss"
)

// State is the outcome of a cache read.
type State int

const (
	// StateMiss means nothing usable is cached and the domain must be fetched.
	StateMiss State = iota
	// StateHit means a fresh icon was read from disk.
	StateHit
	// StateNegative means an unexpired miss marker exists and the caller must
	// serve the fallback without any network activity.
	StateNegative
)

// Store is the disk-backed icon cache. Reads and writes are unsynchronized
// file operations: concurrent resolutions of the same domain may race, which
// is acceptable since writes for a domain converge to the same content
// (last-writer-wins). Keys must have passed domain validation before they
// reach the store.
type Store struct {
	dir    string
	ttl    time.Duration
	negTTL time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

func New(cfg *config.Icons, logger *slog.Logger) *Store {
	return &Store{
		dir:    cfg.CacheDir,
		ttl:    cfg.CacheTTL,
		negTTL: cfg.CacheNegTTL,
		clock:  clock.New(),
		logger: logger,
	}
}

// Get reads the cache for domain. An unexpired miss marker short-circuits any
// hit-file check. Filesystem errors never fail a resolution: they degrade to
// StateMiss.
func (s *Store) Get(domain string) ([]byte, State) {
	path := s.iconPath(domain)

	if s.negCached(path) {
		return nil, StateNegative
	}
	if s.expired(path) {
		return nil, StateMiss
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, StateMiss
	}
	return body, StateHit
}

// PutHit stores a successfully resolved icon. Write errors are logged and
// swallowed so the caller can still return the freshly downloaded bytes.
func (s *Store) PutHit(domain string, body []byte) {
	s.write(s.iconPath(domain), body)
}

// PutMiss stores an empty negative cache marker for domain.
func (s *Store) PutMiss(domain string) {
	s.write(s.missPath(domain), nil)
}

func (s *Store) iconPath(domain string) string {
	return filepath.Join(s.dir, domain+iconSuffix)
}

func (s *Store) missPath(domain string) string {
	return filepath.Join(s.dir, domain+missSuffix)
}

func (s *Store) write(path string, body []byte) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("create icon cache dir", "dir", s.dir, "error", err)
		return
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		s.logger.Error("write icon cache file", "path", path, "error", err)
	}
}

// negCached checks the miss marker next to path. An expired marker is removed,
// not merely ignored, so the directory stays consistent with "no negative
// cache" state.
func (s *Store) negCached(path string) bool {
	marker := path + ".miss"

	expired, err := s.fileExpired(marker, s.negTTL)
	switch {
	case err != nil:
		// The marker is missing or inaccessible.
		return false
	case expired:
		if err = os.Remove(marker); err != nil {
			s.logger.Error("remove negative cache marker", "path", marker, "error", err)
		}
		return false
	}

	return true
}

func (s *Store) expired(path string) bool {
	expired, err := s.fileExpired(path, s.ttl)
	if err != nil {
		return true
	}
	return expired
}

// fileExpired implements the expiry rule: ttl > 0 && ttl <= age. A ttl of zero
// never expires.
func (s *Store) fileExpired(path string, ttl time.Duration) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	age := s.clock.Now().Sub(info.ModTime())
	return ttl > 0 && ttl <= age, nil
}
