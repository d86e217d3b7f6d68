// Package market maintains the engine's view of on-chain pool state: a
// TTL-bounded cache of the provider's pool listing, a per-pool liquidity
// history, and the constant-product price model derived from pool reserves.
package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/adapters/persistence"
	"github.com/SynclonSec/swaproute/internal/config"
	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/metrics"
	"github.com/SynclonSec/swaproute/internal/provider"
	"github.com/SynclonSec/swaproute/internal/services"
)

// PoolCache holds the current pool list and its refresh machinery. Readers
// get lock-free copy-on-write snapshots; every successful refresh replaces
// the whole list in a single atomic swap, never mutating pools in place.
type PoolCache struct {
	provider provider.QuoteProvider
	store    *persistence.SnapshotStore
	tracker  *LiquidityTracker
	cfg      config.MarketConfig
	logger   *services.ServiceLogger

	// refreshMu serializes the check-wait-call-update sequence so two
	// concurrent refreshers cannot both observe a stale lastCall and call
	// through together.
	refreshMu   sync.Mutex
	lastCall    time.Time
	lastRefresh time.Time

	snapshot     atomic.Pointer[[]*domain.PoolInfo]
	refreshCount atomic.Uint64

	// sleep is swapped out in tests; production uses a ctx-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoolCache(qp provider.QuoteProvider, store *persistence.SnapshotStore, tracker *LiquidityTracker, cfg config.MarketConfig) *PoolCache {
	return &PoolCache{
		provider: qp,
		store:    store,
		tracker:  tracker,
		cfg:      cfg,
		logger:   services.NewServiceLogger("market.PoolCache"),
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tracker exposes the liquidity history fed by this cache.
func (c *PoolCache) Tracker() *LiquidityTracker {
	return c.tracker
}

// Pools returns the current snapshot. The returned slice must not be
// mutated; it may be shared with concurrent readers.
func (c *PoolCache) Pools() []*domain.PoolInfo {
	p := c.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Stats reports the snapshot size and how many refreshes have succeeded.
func (c *PoolCache) Stats() (poolCount int, refreshes uint64) {
	return len(c.Pools()), c.refreshCount.Load()
}

// Refresh updates the pool list from the provider. When force is false and
// the cache is younger than the TTL, it is a no-op. Failures keep stale
// in-memory data when any exists; with no in-memory data the persisted
// snapshot is tried; only when that too fails does Refresh return an error.
func (c *PoolCache) Refresh(ctx context.Context, force bool) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if !force && c.snapshot.Load() != nil && time.Since(c.lastRefresh) < c.cfg.CacheTTL {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.PoolRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	// Fixed-delay rate limit: block until MinRefreshInterval has elapsed
	// since the previous provider call.
	if elapsed := time.Since(c.lastCall); elapsed < c.cfg.MinRefreshInterval {
		wait := c.cfg.MinRefreshInterval - elapsed
		c.logger.Info().Dur("wait", wait).Msg("enforcing provider rate limit")
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	newPools, err := c.provider.ListPools(ctx)
	c.lastCall = time.Now()
	if err != nil {
		metrics.PoolRefreshes.WithLabelValues("error").Inc()
		return c.recoverFromFailedRefresh(err)
	}

	previous := make(map[solana.PublicKey]*domain.PoolInfo, len(c.Pools()))
	for _, p := range c.Pools() {
		previous[p.Address] = p
	}

	now := time.Now()
	for _, pool := range newPools {
		c.tracker.Record(pool, previous[pool.Address], now)
	}

	c.snapshot.Store(&newPools)
	c.lastRefresh = now
	c.refreshCount.Add(1)
	metrics.PoolRefreshes.WithLabelValues("success").Inc()
	metrics.PoolCount.Set(float64(len(newPools)))

	if err := c.store.Save(newPools); err != nil {
		// Persistence is best effort once we hold fresh data in memory.
		c.logger.Warn().Err(err).Msg("failed to persist pool snapshot")
	}

	c.logger.Info().Int("pools", len(newPools)).Msg("refreshed pool list")
	return nil
}

// recoverFromFailedRefresh implements the fallback ladder: keep stale
// in-memory data, else restore the persisted snapshot, else fail for real.
func (c *PoolCache) recoverFromFailedRefresh(cause error) error {
	if c.snapshot.Load() != nil {
		c.logger.Error().Err(cause).Msg("refresh failed, retaining stale pool list")
		return nil
	}

	loaded, err := c.store.Load()
	if err != nil {
		metrics.SnapshotLoads.WithLabelValues("error").Inc()
		c.logger.Error().Err(err).Msg("snapshot restore failed")
		return domain.WrapError(domain.KindProviderUnavailable, cause, "no pool data available")
	}
	metrics.SnapshotLoads.WithLabelValues("success").Inc()

	// The snapshot substitutes for live data but does not count as a
	// successful refresh; the next call retries the provider.
	c.snapshot.Store(&loaded)
	metrics.PoolCount.Set(float64(len(loaded)))
	c.logger.Warn().Err(cause).Int("pools", len(loaded)).Msg("refresh failed, restored persisted snapshot")
	return nil
}

// FindPools returns every pool matching the optional base/quote mint filters
// with totalSupply liquidity of at least minLiquidity. A nil filter matches
// everything on that axis. Triggers a non-forced refresh first; refresh
// failures only surface when no pool data exists at all.
func (c *PoolCache) FindPools(ctx context.Context, baseMint, quoteMint *solana.PublicKey, minLiquidity float64) ([]*domain.PoolInfo, error) {
	if err := c.Refresh(ctx, false); err != nil {
		return nil, err
	}

	var out []*domain.PoolInfo
	for _, pool := range c.Pools() {
		if baseMint != nil && !pool.HasMint(*baseMint) {
			continue
		}
		if quoteMint != nil && !pool.HasMint(*quoteMint) {
			continue
		}
		if pool.TotalSupply() < minLiquidity {
			continue
		}
		out = append(out, pool)
	}
	return out, nil
}

// PoolByAddress returns the first pool with the given address.
func (c *PoolCache) PoolByAddress(address solana.PublicKey) (*domain.PoolInfo, bool) {
	for _, pool := range c.Pools() {
		if pool.Address.Equals(address) {
			return pool, true
		}
	}
	return nil, false
}

// TokenPairs returns every distinct unordered mint pair across all pools.
func (c *PoolCache) TokenPairs() []domain.TokenPair {
	seen := make(map[domain.TokenPair]struct{})
	var pairs []domain.TokenPair
	for _, pool := range c.Pools() {
		pair := domain.NewTokenPair(pool.TokenA.Mint, pool.TokenB.Mint)
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs
}

// LiquidityChange reports liquidity drift for one pool over window; a
// non-positive window uses the configured default.
func (c *PoolCache) LiquidityChange(pool solana.PublicKey, window time.Duration) (*ChangeResult, error) {
	if window <= 0 {
		window = c.cfg.HistoryWindow
	}
	return c.tracker.ChangeOverWindow(pool, window, time.Now())
}
