package domain

import (
	"github.com/gagliardetto/solana-go"
)

// SwapStep is one traversal of a pool edge: source converted to target
// through a single pool. Immutable once constructed.
type SwapStep struct {
	SourceMint  solana.PublicKey `json:"sourceMint"`
	TargetMint  solana.PublicKey `json:"targetMint"`
	PoolAddress solana.PublicKey `json:"poolAddress"`
	InAmount    float64          `json:"inAmount"`
	OutAmount   float64          `json:"outAmount"`
	Fees        float64          `json:"fees"`
}

// OptimizedRoute is an ordered hop sequence from the original source mint to
// the original target mint, with route-level aggregates. Owned solely by the
// caller that requested the search; never cached or shared.
type OptimizedRoute struct {
	Path        []SwapStep `json:"path"`
	TotalInput  float64    `json:"totalInput"`
	TotalOutput float64    `json:"totalOutput"`
	TotalFees   float64    `json:"totalFees"`

	// PriceImpact is the cumulative percent loss across hops relative to
	// each hop's fair price.
	PriceImpact float64 `json:"priceImpact"`
}
