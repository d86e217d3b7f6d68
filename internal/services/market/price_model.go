package market

import (
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/domain"
)

// DefaultDepthPercent is the price move used for market depth when the caller
// does not specify one.
const DefaultDepthPercent = 1.0

// PriceImpact estimates the percent price degradation of depositing amountIn
// of the given mint into a constant-product pool:
//
//	impact% = amountIn / (reserve + amountIn) * 100
//
// This models marginal price drift of the deposited side only; it is an
// approximation, not executed slippage. A zero reserve means any deposit
// moves the price without bound, so the impact is +Inf.
func PriceImpact(pool *domain.PoolInfo, amountIn float64, mint solana.PublicKey) (float64, error) {
	reserve, ok := pool.ReserveOf(mint)
	if !ok {
		return 0, domain.Errorf(domain.KindTokenNotInPool, "mint %s not in pool %s", mint, pool.Address)
	}
	if reserve == 0 {
		return math.Inf(1), nil
	}
	return amountIn / (reserve + amountIn) * 100, nil
}

// Depth is the reserve level a constant-product pool would settle to if its
// price moved by a given percentage, in both directions.
type Depth struct {
	DepthUpper   float64 `json:"depthUpper"`
	DepthLower   float64 `json:"depthLower"`
	CurrentPrice float64 `json:"currentPrice"`
}

// MarketDepth computes depth for a ±depthPercent price move. With k held
// invariant, the B reserve at target price p is sqrt(k*p). Reserves are not
// validated here; a zero A reserve yields price 0 and both depths follow
// from that.
func MarketDepth(pool *domain.PoolInfo, depthPercent float64) Depth {
	reserveA := pool.TokenA.ReserveFloat()
	reserveB := pool.TokenB.ReserveFloat()
	k := reserveA * reserveB

	price := 0.0
	if reserveA > 0 {
		price = reserveB / reserveA
	}

	return Depth{
		DepthUpper:   depthAtPrice(k, price*(1+depthPercent/100)),
		DepthLower:   depthAtPrice(k, price*(1-depthPercent/100)),
		CurrentPrice: price,
	}
}

func depthAtPrice(k, targetPrice float64) float64 {
	if targetPrice <= 0 {
		return 0
	}
	return math.Sqrt(k * targetPrice)
}
