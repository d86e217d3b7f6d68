package config

import (
	"testing"
	"time"
)

func TestMarketConfigDefaults(t *testing.T) {
	var c MarketConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", c.CacheTTL)
	}
	if c.MinRefreshInterval != 5*time.Second {
		t.Errorf("MinRefreshInterval = %v, want 5s", c.MinRefreshInterval)
	}
	if c.HistoryWindow != 24*time.Hour {
		t.Errorf("HistoryWindow = %v, want 24h", c.HistoryWindow)
	}
}

func TestMarketConfigEnvOverride(t *testing.T) {
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("MIN_REFRESH_INTERVAL", "10s")

	var c MarketConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", c.CacheTTL)
	}
	if c.MinRefreshInterval != 10*time.Second {
		t.Errorf("MinRefreshInterval = %v, want 10s", c.MinRefreshInterval)
	}
}

func TestRouterConfigDefaults(t *testing.T) {
	var c RouterConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.MaxHops != 3 || c.MaxRoutes != 5 {
		t.Errorf("bounds = (%d, %d), want (3, 5)", c.MaxHops, c.MaxRoutes)
	}
	if c.FeeBpsThreshold != 100 {
		t.Errorf("FeeBpsThreshold = %v, want 100", c.FeeBpsThreshold)
	}
	if c.DepthPercent != 1.0 {
		t.Errorf("DepthPercent = %v, want 1.0", c.DepthPercent)
	}
}

func TestRouterConfigRejectsInvalid(t *testing.T) {
	t.Setenv("ROUTER_MAX_HOPS", "0")

	var c RouterConfig
	if err := c.Load(); err == nil {
		t.Fatal("Load() with ROUTER_MAX_HOPS=0: error = nil, want error")
	}
}

func TestGeneralConfigDefaults(t *testing.T) {
	var c GeneralConfig
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.HTTPPort != "8080" || c.HTTPHost != "localhost" {
		t.Errorf("listen = %s:%s, want localhost:8080", c.HTTPHost, c.HTTPPort)
	}
}
