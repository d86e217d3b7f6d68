package domain

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// LiquidityTotalSupplyKey is the liquidity map entry every valid pool record
// must carry.
const LiquidityTotalSupplyKey = "totalSupply"

// PoolInfo is one liquidity pool as reported by the quote provider. Instances
// are replaced wholesale on each refresh cycle; nothing mutates a pool in
// place after construction.
type PoolInfo struct {
	Address   solana.PublicKey  `json:"poolAddress"`
	TokenA    TokenMetadata     `json:"tokenA"`
	TokenB    TokenMetadata     `json:"tokenB"`
	Liquidity map[string]string `json:"liquidity"`
	Fees      map[string]string `json:"fees"`
	Version   int               `json:"version"`

	LastUpdated time.Time `json:"-"`
}

// Validate checks the structural invariants a provider-supplied pool record
// must satisfy before it is admitted into the cache.
func (p *PoolInfo) Validate() error {
	if p.TokenA.Mint.Equals(p.TokenB.Mint) {
		return Errorf(KindInvalidPoolData, "pool %s has identical mints on both sides", p.Address)
	}
	if _, ok := p.Liquidity[LiquidityTotalSupplyKey]; !ok {
		return Errorf(KindInvalidPoolData, "pool %s liquidity map missing %q", p.Address, LiquidityTotalSupplyKey)
	}
	return nil
}

// TotalSupply returns the pool's totalSupply liquidity, zero when absent or
// unparsable.
func (p *PoolInfo) TotalSupply() float64 {
	raw, ok := p.Liquidity[LiquidityTotalSupplyKey]
	if !ok {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ReserveOf resolves the reserve of the side whose mint matches. The second
// return is false when the mint is on neither side.
func (p *PoolInfo) ReserveOf(mint solana.PublicKey) (float64, bool) {
	switch {
	case p.TokenA.Mint.Equals(mint):
		return p.TokenA.ReserveFloat(), true
	case p.TokenB.Mint.Equals(mint):
		return p.TokenB.ReserveFloat(), true
	default:
		return 0, false
	}
}

// HasMint reports whether the mint appears on either side of the pool.
func (p *PoolInfo) HasMint(mint solana.PublicKey) bool {
	return p.TokenA.Mint.Equals(mint) || p.TokenB.Mint.Equals(mint)
}

// TokenPair is an unordered mint pair, normalized so the lexicographically
// smaller base58 mint comes first. (A,B) and (B,A) collapse to one value.
type TokenPair struct {
	MintA solana.PublicKey `json:"mintA"`
	MintB solana.PublicKey `json:"mintB"`
}

// NewTokenPair builds the normalized pair for two mints.
func NewTokenPair(a, b solana.PublicKey) TokenPair {
	if a.String() > b.String() {
		a, b = b, a
	}
	return TokenPair{MintA: a, MintB: b}
}
