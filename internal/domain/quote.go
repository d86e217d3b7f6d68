package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Quote is a single-pool swap estimate returned by the quote provider.
type Quote struct {
	InputAmount  float64          `json:"inputAmount"`
	OutputAmount float64          `json:"outputAmount"`
	TradeFeeBps  float64          `json:"tradeFeeBps"`
	OwnerFeeBps  float64          `json:"ownerFeeBps"`
	PoolAddress  solana.PublicKey `json:"poolAddress"`
}

// TotalFee is the full fee charged for the hop, trade plus owner share.
func (q *Quote) TotalFee() float64 {
	return q.TradeFeeBps + q.OwnerFeeBps
}
