package config

import "time"

// Icons configures the favicon resolution engine. All fields are read once at
// construction time, so a single Icons value may back any number of concurrent
// resolutions.
type Icons struct {
	// CacheDir is the directory holding resolved icons on disk. It is created
	// lazily on the first write. One file per domain: "<domain>.png" for a
	// successfully resolved icon and "<domain>.png.miss" (always empty) for a
	// negatively cached failure.
	CacheDir string `yaml:"cache_dir"`

	// CacheTTL is the lifetime of a successfully cached icon. Zero means the
	// icon never expires and is re-downloaded only when the file is removed
	// externally.
	// Example: "720h".
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// CacheNegTTL is the lifetime of a negative cache marker. While a marker
	// is fresh, resolution of that domain short-circuits to the fallback icon
	// without any network activity. An expired marker is deleted on the next
	// read, so the domain becomes a genuine cache miss again.
	// Example: "72h".
	CacheNegTTL time.Duration `yaml:"cache_neg_ttl"`

	// BlacklistRegex is an optional pattern matched against every outbound
	// host (the requested domain, redirect targets and icon candidate hosts).
	// A match blocks the request. The pattern is compiled once at construction;
	// an invalid pattern is a construction error.
	BlacklistRegex string `yaml:"blacklist_regex"`

	// BlacklistNonGlobalIPs blocks any outbound host which resolves to at
	// least one address that is not globally routable (loopback, private,
	// link-local, multicast, unspecified). This is the SSRF protection for
	// attacker-controlled pages that point the resolver at internal hosts.
	BlacklistNonGlobalIPs bool `yaml:"blacklist_non_global_ips"`

	// DisableDownload turns off all outbound fetching. Cached icons are still
	// served until they expire; everything else gets the fallback icon.
	DisableDownload bool `yaml:"disable_download"`

	// DownloadTimeout bounds each individual outbound HTTP request
	// (connect + read). It is not a bound on a whole resolution: a resolution
	// trying several candidates may take a multiple of it before falling back.
	// Example: "10s".
	DownloadTimeout time.Duration `yaml:"download_timeout"`

	// SweepInterval is the period of the background cache sweeper which drops
	// expired icons and negative markers from disk. Zero disables the sweeper;
	// expired entries are then only cleaned up when read.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}
