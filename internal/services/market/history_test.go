package market

import (
	"math"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/domain"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name   string
		oldVal float64
		newVal float64
		want   float64
	}{
		{"both zero", 0, 0, 0},
		{"from zero", 0, 5, math.Inf(1)},
		{"ten percent up", 100, 110, 10},
		{"ten percent down", 100, 90, -10},
		{"negative baseline", -100, -90, 10},
		{"no change", 42, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.oldVal, tt.newVal)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("PercentChange(%v, %v) = %v, want +Inf", tt.oldVal, tt.newVal, got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.oldVal, tt.newVal, got, tt.want)
			}
		})
	}
}

func TestRingSeriesEviction(t *testing.T) {
	r := newRingSeries(3)
	for i := 1; i <= 5; i++ {
		r.push(HistoryEntry{Liquidity: float64(i)})
	}

	got := r.snapshot()
	if len(got) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(got))
	}
	for i, want := range []float64{3, 4, 5} {
		if got[i].Liquidity != want {
			t.Errorf("snapshot[%d].Liquidity = %v, want %v", i, got[i].Liquidity, want)
		}
	}

	latest, ok := r.latest()
	if !ok || latest.Liquidity != 5 {
		t.Errorf("latest() = (%v, %v), want (5, true)", latest.Liquidity, ok)
	}
}

func testPool(address solana.PublicKey, reserveA, reserveB, supply string) *domain.PoolInfo {
	return &domain.PoolInfo{
		Address:   address,
		TokenA:    domain.TokenMetadata{Mint: solana.NewWallet().PublicKey(), Reserve: reserveA},
		TokenB:    domain.TokenMetadata{Mint: solana.NewWallet().PublicKey(), Reserve: reserveB},
		Liquidity: map[string]string{domain.LiquidityTotalSupplyKey: supply},
	}
}

func TestTrackerRecordChange(t *testing.T) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	now := time.Now()

	first := testPool(addr, "1000", "500", "1000000")
	second := testPool(addr, "1100", "450", "1100000")

	tracker.Record(first, nil, now)
	tracker.Record(second, first, now.Add(time.Minute))

	history := tracker.History(addr)
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[0].Change != nil {
		t.Error("first entry Change != nil, want nil")
	}

	change := history[1].Change
	if change == nil {
		t.Fatal("second entry Change = nil, want computed change")
	}
	if math.Abs(change.ReserveA.Percent-10) > 1e-9 {
		t.Errorf("ReserveA.Percent = %v, want 10", change.ReserveA.Percent)
	}
	if math.Abs(change.ReserveB.Percent+10) > 1e-9 {
		t.Errorf("ReserveB.Percent = %v, want -10", change.ReserveB.Percent)
	}
	if math.Abs(change.Liquidity.Absolute-100000) > 1e-6 {
		t.Errorf("Liquidity.Absolute = %v, want 100000", change.Liquidity.Absolute)
	}
}

func TestTrackerClampsBackwardsTimestamps(t *testing.T) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	now := time.Now()

	pool := testPool(addr, "1000", "500", "1000000")
	tracker.Record(pool, nil, now)
	tracker.Record(pool, pool, now.Add(-time.Hour))

	history := tracker.History(addr)
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[1].Timestamp.Before(history[0].Timestamp) {
		t.Errorf("timestamps out of order: %v before %v", history[1].Timestamp, history[0].Timestamp)
	}
}

func TestChangeOverWindow(t *testing.T) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	now := time.Now()

	old := testPool(addr, "1000", "500", "1000000")
	mid := testPool(addr, "1050", "480", "1050000")
	latest := testPool(addr, "1100", "450", "1100000")

	// The first entry is older than the window and must not count.
	tracker.Record(old, nil, now.Add(-48*time.Hour))
	tracker.Record(mid, old, now.Add(-12*time.Hour))
	tracker.Record(latest, mid, now.Add(-time.Hour))

	change, err := tracker.ChangeOverWindow(addr, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("ChangeOverWindow() error = %v", err)
	}
	if change.Samples != 2 {
		t.Errorf("Samples = %d, want 2", change.Samples)
	}

	// 1050000 -> 1100000 is +4.7619%.
	want := (1100000.0 - 1050000.0) / 1050000.0 * 100
	if math.Abs(change.LiquidityPercent-want) > 1e-9 {
		t.Errorf("LiquidityPercent = %v, want %v", change.LiquidityPercent, want)
	}
}

func TestChangeOverWindowInsufficientHistory(t *testing.T) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	now := time.Now()

	_, err := tracker.ChangeOverWindow(addr, time.Hour, now)
	if domain.KindOf(err) != domain.KindInsufficientHistory {
		t.Fatalf("KindOf(err) = %v, want KindInsufficientHistory", domain.KindOf(err))
	}

	tracker.Record(testPool(addr, "1000", "500", "1000000"), nil, now)
	_, err = tracker.ChangeOverWindow(addr, time.Hour, now)
	if domain.KindOf(err) != domain.KindInsufficientHistory {
		t.Fatalf("one entry: KindOf(err) = %v, want KindInsufficientHistory", domain.KindOf(err))
	}
}

func TestTrackerHistoryBounded(t *testing.T) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	now := time.Now()

	pool := testPool(addr, "1000", "500", "1000000")
	var prev *domain.PoolInfo
	for i := 0; i < HistoryCapacity+50; i++ {
		tracker.Record(pool, prev, now.Add(time.Duration(i)*time.Second))
		prev = pool
	}

	if got := len(tracker.History(addr)); got != HistoryCapacity {
		t.Errorf("history len = %d, want %d", got, HistoryCapacity)
	}
}

func BenchmarkTrackerRecord(b *testing.B) {
	tracker := NewLiquidityTracker()
	addr := solana.NewWallet().PublicKey()
	pool := testPool(addr, "1000", "500", "1000000")
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracker.Record(pool, pool, now.Add(time.Duration(i)*time.Second))
	}
}
