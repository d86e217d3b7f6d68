// Package persistence stores the pool snapshot as a JSON document on disk.
// The file doubles as an operator-inspectable record of the last good
// refresh, so it is written indented rather than compact.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/SynclonSec/swaproute/internal/domain"
)

const DefaultSnapshotPath = "./data/pool_snapshot.json"

// SnapshotStore persists and restores the pool list. A restored snapshot is
// only valid while the file's modification time is within maxAge of now;
// anything older is treated as absent.
type SnapshotStore struct {
	path   string
	maxAge time.Duration
}

func NewSnapshotStore(path string, maxAge time.Duration) *SnapshotStore {
	if path == "" {
		path = DefaultSnapshotPath
	}
	return &SnapshotStore{path: path, maxAge: maxAge}
}

// StoredPool is the on-disk pool record.
type StoredPool struct {
	PoolAddress string            `json:"poolAddress"`
	TokenA      StoredToken       `json:"tokenA"`
	TokenB      StoredToken       `json:"tokenB"`
	Liquidity   map[string]string `json:"liquidity"`
	Fees        map[string]string `json:"fees"`
	Version     int               `json:"version"`
}

// StoredToken is the on-disk token metadata block.
type StoredToken struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Reserve  string `json:"reserve,omitempty"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// Save writes the full pool list, replacing any previous snapshot. The write
// goes through a temp file and rename so readers never observe a torn
// document.
func (s *SnapshotStore) Save(pools []*domain.PoolInfo) error {
	stored := make([]StoredPool, 0, len(pools))
	for _, pool := range pools {
		stored = append(stored, poolToStored(pool))
	}

	data, err := sonic.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "pool_snapshot_*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish snapshot: %w", err)
	}

	log.Info().Int("pools", len(pools)).Str("path", s.path).Msg("[snapshot] saved pool snapshot")
	return nil
}

// Load restores the last persisted pool list. It fails when the file is
// missing, older than maxAge, or does not parse.
func (s *SnapshotStore) Load() ([]*domain.PoolInfo, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	age := time.Since(info.ModTime())
	if age > s.maxAge {
		return nil, fmt.Errorf("snapshot at %s is stale (age %s > %s)", s.path, age.Truncate(time.Second), s.maxAge)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var stored []StoredPool
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	pools := make([]*domain.PoolInfo, 0, len(stored))
	for i := range stored {
		pool, err := storedToPool(&stored[i])
		if err != nil {
			log.Warn().Str("address", stored[i].PoolAddress).Err(err).Msg("[snapshot] skipping invalid stored pool")
			continue
		}
		pools = append(pools, pool)
	}

	log.Info().Int("pools", len(pools)).Str("path", s.path).Msg("[snapshot] loaded pool snapshot")
	return pools, nil
}

func poolToStored(pool *domain.PoolInfo) StoredPool {
	return StoredPool{
		PoolAddress: pool.Address.String(),
		TokenA:      tokenToStored(pool.TokenA),
		TokenB:      tokenToStored(pool.TokenB),
		Liquidity:   pool.Liquidity,
		Fees:        pool.Fees,
		Version:     pool.Version,
	}
}

func tokenToStored(t domain.TokenMetadata) StoredToken {
	return StoredToken{
		Mint:     t.Mint.String(),
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
		Reserve:  t.Reserve,
		LogoURI:  t.LogoURI,
	}
}

func storedToPool(stored *StoredPool) (*domain.PoolInfo, error) {
	address, err := solana.PublicKeyFromBase58(stored.PoolAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid pool address: %w", err)
	}
	tokenA, err := storedToToken(stored.TokenA)
	if err != nil {
		return nil, fmt.Errorf("tokenA: %w", err)
	}
	tokenB, err := storedToToken(stored.TokenB)
	if err != nil {
		return nil, fmt.Errorf("tokenB: %w", err)
	}

	pool := &domain.PoolInfo{
		Address:     address,
		TokenA:      tokenA,
		TokenB:      tokenB,
		Liquidity:   stored.Liquidity,
		Fees:        stored.Fees,
		Version:     stored.Version,
		LastUpdated: time.Now(),
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

func storedToToken(stored StoredToken) (domain.TokenMetadata, error) {
	mint, err := solana.PublicKeyFromBase58(stored.Mint)
	if err != nil {
		return domain.TokenMetadata{}, fmt.Errorf("invalid mint %q: %w", stored.Mint, err)
	}
	return domain.TokenMetadata{
		Mint:     mint,
		Symbol:   stored.Symbol,
		Name:     stored.Name,
		Decimals: stored.Decimals,
		Reserve:  stored.Reserve,
		LogoURI:  stored.LogoURI,
	}, nil
}
