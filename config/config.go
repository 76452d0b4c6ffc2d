package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	defaultCacheDir        = "icon_cache"
	defaultDownloadTimeout = 10 * time.Second
)

func (cfg *Icons) AdjustConfig() {
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaultDownloadTimeout
	}
}

func LoadConfig(path string) (*Icons, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Icons
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.AdjustConfig()

	return cfg, nil
}
