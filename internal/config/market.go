package config

import (
	"errors"
	"time"

	"github.com/SynclonSec/swaproute/internal/common"
)

type MarketConfig struct {
	// CacheTTL is how long a refreshed pool list stays fresh.
	// Default: 15m
	CacheTTL time.Duration

	// MinRefreshInterval is the fixed delay enforced between consecutive
	// provider pool-listing calls.
	// Default: 5s
	MinRefreshInterval time.Duration

	// HistoryWindow is the default trailing window for liquidity change
	// queries.
	// Default: 24h
	HistoryWindow time.Duration

	// SnapshotPath is where the pool snapshot document is persisted.
	// Default: "./data/pool_snapshot.json"
	SnapshotPath string
}

func (c *MarketConfig) Load() error {
	c.CacheTTL = common.GetEnvOrDefaultDuration("CACHE_TTL", 15*time.Minute)
	c.MinRefreshInterval = common.GetEnvOrDefaultDuration("MIN_REFRESH_INTERVAL", 5*time.Second)
	c.HistoryWindow = common.GetEnvOrDefaultDuration("LIQUIDITY_HISTORY_WINDOW", 24*time.Hour)
	c.SnapshotPath = common.GetEnvOrDefault("SNAPSHOT_PATH", "./data/pool_snapshot.json")
	return c.Validate()
}

func (c *MarketConfig) Validate() error {
	if c.CacheTTL <= 0 || c.MinRefreshInterval < 0 || c.HistoryWindow <= 0 {
		return errors.New("invalid market config")
	}
	return nil
}
