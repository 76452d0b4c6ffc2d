package tests

import (
	"os"
	"path/filepath"
	"testing"

	faviconcache "github.com/Borislavv/go-favicon-cache"
	"github.com/Borislavv/go-favicon-cache/tests/help"
	"github.com/stretchr/testify/require"
)

func TestResolveFromSeededCache(t *testing.T) {
	dir := t.TempDir()
	seeded := []byte("seeded icon bytes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com.png"), seeded, 0o644))

	r, err := faviconcache.New(t.Context(), help.OfflineCfg(dir), help.Logger())
	require.NoError(t, err)
	defer r.Close()

	icon := r.Resolve(t.Context(), "example.com")
	require.Equal(t, seeded, icon.Body)
	require.Equal(t, faviconcache.ContentType, icon.ContentType)
	require.NotEmpty(t, icon.ETag)
}

func TestResolveUnknownDomainOffline(t *testing.T) {
	dir := t.TempDir()
	r, err := faviconcache.New(t.Context(), help.OfflineCfg(dir), help.Logger())
	require.NoError(t, err)
	defer r.Close()

	icon := r.Resolve(t.Context(), "unknown.example.com")
	require.NotEmpty(t, icon.Body)
	require.Equal(t, faviconcache.ContentType, icon.ContentType)

	// Disabled downloads return the fallback without negative-caching: the
	// domain stays a plain miss for when downloads come back on.
	_, err = os.Lstat(filepath.Join(dir, "unknown.example.com.png.miss"))
	require.True(t, os.IsNotExist(err))
}

func TestResolveInvalidDomainServesFallback(t *testing.T) {
	dir := t.TempDir()
	r, err := faviconcache.New(t.Context(), help.OfflineCfg(dir), help.Logger())
	require.NoError(t, err)
	defer r.Close()

	invalid := r.Resolve(t.Context(), "../../etc/passwd")
	missing := r.Resolve(t.Context(), "unknown.example.com")
	require.Equal(t, missing.Body, invalid.Body)
	require.Equal(t, missing.ETag, invalid.ETag)

	// Nothing was written for the rejected input.
	entries, err := os.ReadDir(dir)
	if err == nil {
		require.Empty(t, entries)
	}
}

func TestResolveNegativeMarkerServesFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dead.example.com.png.miss"), nil, 0o644))

	r, err := faviconcache.New(t.Context(), help.OfflineCfg(dir), help.Logger())
	require.NoError(t, err)
	defer r.Close()

	icon := r.Resolve(t.Context(), "dead.example.com")
	fallback := r.Resolve(t.Context(), "unknown.example.com")
	require.Equal(t, fallback.Body, icon.Body)
}

func TestETagTracksBody(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.com.png"), []byte("icon-a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.com.png"), []byte("icon-b"), 0o644))

	r, err := faviconcache.New(t.Context(), help.OfflineCfg(dir), help.Logger())
	require.NoError(t, err)
	defer r.Close()

	a1 := r.Resolve(t.Context(), "a.com")
	a2 := r.Resolve(t.Context(), "a.com")
	b := r.Resolve(t.Context(), "b.com")

	require.Equal(t, a1.ETag, a2.ETag)
	require.NotEqual(t, a1.ETag, b.ETag)
}

func TestInvalidBlacklistRegexFailsConstruction(t *testing.T) {
	cfg := help.Cfg(t.TempDir())
	cfg.BlacklistRegex = `(`

	_, err := faviconcache.New(t.Context(), cfg, help.Logger())
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	r, err := faviconcache.New(t.Context(), help.Cfg(t.TempDir()), help.Logger())
	require.NoError(t, err)
	require.NoError(t, r.Close())
}
