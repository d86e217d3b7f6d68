package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// TokenMetadata describes one side of a pool at snapshot time. Values are
// immutable: a refresh that changes a reserve produces a new TokenMetadata,
// it never mutates an existing one.
type TokenMetadata struct {
	Mint     solana.PublicKey `json:"mint"`
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Decimals uint8            `json:"decimals"`
	LogoURI  string           `json:"logoURI,omitempty"`

	// Reserve is the pool-side balance as a decimal string. Kept as a string
	// end to end so provider precision survives serialization round-trips.
	Reserve string `json:"reserve,omitempty"`
}

// ReserveFloat parses the reserve balance. A missing or malformed reserve
// reads as zero, matching how an empty pool side behaves in the price model.
func (t TokenMetadata) ReserveFloat() float64 {
	if t.Reserve == "" {
		return 0
	}
	d, err := decimal.NewFromString(t.Reserve)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
