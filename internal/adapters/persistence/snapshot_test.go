package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/domain"
)

func snapshotPool() *domain.PoolInfo {
	return &domain.PoolInfo{
		Address: solana.NewWallet().PublicKey(),
		TokenA: domain.TokenMetadata{
			Mint:     solana.NewWallet().PublicKey(),
			Symbol:   "SOL",
			Decimals: 9,
			Reserve:  "1000",
		},
		TokenB: domain.TokenMetadata{
			Mint:     solana.NewWallet().PublicKey(),
			Symbol:   "USDC",
			Decimals: 6,
			Reserve:  "50000",
		},
		Liquidity: map[string]string{domain.LiquidityTotalSupplyKey: "2000000"},
		Fees:      map[string]string{"tradeFeeNumerator": "25"},
		Version:   4,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snapshot.json")
	store := NewSnapshotStore(path, time.Hour)

	want := snapshotPool()
	if err := store.Save([]*domain.PoolInfo{want}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() returned %d pools, want 1", len(got))
	}

	p := got[0]
	if !p.Address.Equals(want.Address) {
		t.Errorf("Address = %s, want %s", p.Address, want.Address)
	}
	if p.TokenA.Reserve != "1000" || p.TokenB.Reserve != "50000" {
		t.Errorf("reserves = (%s, %s), want (1000, 50000)", p.TokenA.Reserve, p.TokenB.Reserve)
	}
	if p.Liquidity[domain.LiquidityTotalSupplyKey] != "2000000" {
		t.Errorf("totalSupply = %s, want 2000000", p.Liquidity[domain.LiquidityTotalSupplyKey])
	}
	if p.Version != 4 {
		t.Errorf("Version = %d, want 4", p.Version)
	}
}

func TestSnapshotLoadMissing(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "absent.json"), time.Hour)
	if _, err := store.Load(); err == nil {
		t.Fatal("Load() on missing file: error = nil, want error")
	}
}

func TestSnapshotLoadStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewSnapshotStore(path, time.Hour)

	if err := store.Save([]*domain.PoolInfo{snapshotPool()}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Backdate the file beyond the validity window.
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("Load() on stale file: error = nil, want error")
	}
}

func TestSnapshotLoadSkipsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewSnapshotStore(path, time.Hour)

	valid := snapshotPool()
	broken := snapshotPool()
	broken.Liquidity = map[string]string{}

	if err := store.Save([]*domain.PoolInfo{valid, broken}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() returned %d pools, want 1 (invalid record skipped)", len(got))
	}
	if !got[0].Address.Equals(valid.Address) {
		t.Errorf("surviving pool = %s, want %s", got[0].Address, valid.Address)
	}
}

func TestSnapshotSaveReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewSnapshotStore(path, time.Hour)

	first := snapshotPool()
	second := snapshotPool()

	if err := store.Save([]*domain.PoolInfo{first}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := store.Save([]*domain.PoolInfo{second}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || !got[0].Address.Equals(second.Address) {
		t.Error("Load() did not reflect the latest Save()")
	}
}
