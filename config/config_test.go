package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache_dir: /var/cache/icons
cache_ttl: 720h
cache_neg_ttl: 72h
blacklist_regex: "(^|\\.)internal\\.corp$"
blacklist_non_global_ips: true
disable_download: false
download_timeout: 5s
sweep_interval: 1h
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "/var/cache/icons", cfg.CacheDir)
	require.Equal(t, 720*time.Hour, cfg.CacheTTL)
	require.Equal(t, 72*time.Hour, cfg.CacheNegTTL)
	require.Equal(t, `(^|\.)internal\.corp$`, cfg.BlacklistRegex)
	require.True(t, cfg.BlacklistNonGlobalIPs)
	require.False(t, cfg.DisableDownload)
	require.Equal(t, 5*time.Second, cfg.DownloadTimeout)
	require.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_neg_ttl: 72h\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, defaultCacheDir, cfg.CacheDir)
	require.Equal(t, defaultDownloadTimeout, cfg.DownloadTimeout)
	require.Zero(t, cfg.CacheTTL) // zero means never expires
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
