package help

import (
	"time"

	"github.com/Borislavv/go-favicon-cache/config"
)

func Cfg(cacheDir string) *config.Icons {
	c := &config.Icons{
		CacheDir:        cacheDir,
		CacheTTL:        time.Hour * 720,
		CacheNegTTL:     time.Hour * 72,
		DownloadTimeout: time.Second * 10,
	}
	c.AdjustConfig()
	return c
}

func OfflineCfg(cacheDir string) *config.Icons {
	c := Cfg(cacheDir)
	c.DisableDownload = true
	return c
}
