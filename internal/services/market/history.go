package market

import (
	"math"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/metrics"
)

// HistoryCapacity is the fixed per-pool history depth. Once a series is full,
// appending evicts the oldest entry.
const HistoryCapacity = 1000

// ValueChange is the delta of one tracked field between consecutive
// snapshots.
type ValueChange struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// EntryChange groups the per-field deltas relative to the immediately
// preceding entry for the same pool.
type EntryChange struct {
	ReserveA  ValueChange `json:"reserveA"`
	ReserveB  ValueChange `json:"reserveB"`
	Liquidity ValueChange `json:"liquidity"`
}

// HistoryEntry is one liquidity observation for a pool. Change is nil for the
// first observation of a pool.
type HistoryEntry struct {
	Timestamp time.Time    `json:"timestamp"`
	ReserveA  float64      `json:"reserveA"`
	ReserveB  float64      `json:"reserveB"`
	Liquidity float64      `json:"liquidity"`
	Change    *EntryChange `json:"change,omitempty"`
}

// ringSeries is a fixed-capacity insertion-ordered buffer. head indexes the
// oldest entry; writes go to (head+count)%cap, overwriting the oldest slot
// once the buffer is full.
type ringSeries struct {
	entries []HistoryEntry
	head    int
	count   int
}

func newRingSeries(capacity int) *ringSeries {
	return &ringSeries{entries: make([]HistoryEntry, capacity)}
}

func (r *ringSeries) push(e HistoryEntry) {
	if r.count < len(r.entries) {
		r.entries[(r.head+r.count)%len(r.entries)] = e
		r.count++
		return
	}
	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
}

// snapshot returns the entries oldest first.
func (r *ringSeries) snapshot() []HistoryEntry {
	out := make([]HistoryEntry, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.entries[(r.head+i)%len(r.entries)]
	}
	return out
}

func (r *ringSeries) latest() (HistoryEntry, bool) {
	if r.count == 0 {
		return HistoryEntry{}, false
	}
	return r.entries[(r.head+r.count-1)%len(r.entries)], true
}

// LiquidityTracker keeps a bounded time series of reserve and liquidity
// snapshots per pool, fed by the cache on every refresh.
type LiquidityTracker struct {
	mu       sync.RWMutex
	capacity int
	series   map[solana.PublicKey]*ringSeries
	total    int
}

func NewLiquidityTracker() *LiquidityTracker {
	return &LiquidityTracker{
		capacity: HistoryCapacity,
		series:   make(map[solana.PublicKey]*ringSeries),
	}
}

// Record appends an observation for pool. prev is the superseded snapshot
// with the same address from the previous refresh, or nil when the pool is
// new; when present, the entry carries the per-field change against it.
func (t *LiquidityTracker) Record(pool, prev *domain.PoolInfo, now time.Time) {
	entry := HistoryEntry{
		Timestamp: now,
		ReserveA:  pool.TokenA.ReserveFloat(),
		ReserveB:  pool.TokenB.ReserveFloat(),
		Liquidity: pool.TotalSupply(),
	}
	if prev != nil {
		entry.Change = &EntryChange{
			ReserveA:  changeOf(prev.TokenA.ReserveFloat(), entry.ReserveA),
			ReserveB:  changeOf(prev.TokenB.ReserveFloat(), entry.ReserveB),
			Liquidity: changeOf(prev.TotalSupply(), entry.Liquidity),
		}
	}

	t.mu.Lock()
	s, ok := t.series[pool.Address]
	if !ok {
		s = newRingSeries(t.capacity)
		t.series[pool.Address] = s
	}
	if last, ok := s.latest(); ok && entry.Timestamp.Before(last.Timestamp) {
		// Per-pool timestamps are monotonically non-decreasing; clamp a
		// skewed clock to the last observation rather than recording
		// out-of-order history.
		entry.Timestamp = last.Timestamp
	}
	before := s.count
	s.push(entry)
	t.total += s.count - before
	metrics.HistoryEntries.Set(float64(t.total))
	t.mu.Unlock()
}

// History returns the retained entries for a pool, oldest first.
func (t *LiquidityTracker) History(pool solana.PublicKey) []HistoryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.series[pool]
	if !ok {
		return nil
	}
	return s.snapshot()
}

// Window restricts a pool's history to entries no older than window relative
// to now, oldest first.
func (t *LiquidityTracker) Window(pool solana.PublicKey, window time.Duration, now time.Time) []HistoryEntry {
	all := t.History(pool)
	cutoff := now.Add(-window)
	for i, e := range all {
		if !e.Timestamp.Before(cutoff) {
			return all[i:]
		}
	}
	return nil
}

// ChangeResult reports percent movement between the oldest and newest
// qualifying entries in a window.
type ChangeResult struct {
	ReserveAPercent  float64       `json:"reserveA"`
	ReserveBPercent  float64       `json:"reserveB"`
	LiquidityPercent float64       `json:"liquidity"`
	Window           time.Duration `json:"timeWindow"`
	Samples          int           `json:"samples"`
}

// ChangeOverWindow computes the liquidity drift for a pool across window.
// Fewer than two qualifying entries yields KindInsufficientHistory.
func (t *LiquidityTracker) ChangeOverWindow(pool solana.PublicKey, window time.Duration, now time.Time) (*ChangeResult, error) {
	relevant := t.Window(pool, window, now)
	if len(relevant) < 2 {
		return nil, domain.Errorf(domain.KindInsufficientHistory,
			"pool %s has %d history entries in the last %s, need 2", pool, len(relevant), window)
	}

	oldest, latest := relevant[0], relevant[len(relevant)-1]
	return &ChangeResult{
		ReserveAPercent:  PercentChange(oldest.ReserveA, latest.ReserveA),
		ReserveBPercent:  PercentChange(oldest.ReserveB, latest.ReserveB),
		LiquidityPercent: PercentChange(oldest.Liquidity, latest.Liquidity),
		Window:           window,
		Samples:          len(relevant),
	}, nil
}

// PercentChange returns the percent movement from old to new.
// PercentChange(0, 0) is 0; PercentChange(0, y) for nonzero y is +Inf.
func PercentChange(oldVal, newVal float64) float64 {
	if oldVal == 0 {
		if newVal == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (newVal - oldVal) / math.Abs(oldVal) * 100
}

func changeOf(oldVal, newVal float64) ValueChange {
	return ValueChange{
		Absolute: newVal - oldVal,
		Percent:  PercentChange(oldVal, newVal),
	}
}
