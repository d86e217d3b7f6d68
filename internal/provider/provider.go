// Package provider defines the quote-provider boundary: the narrow
// request/response interface through which the engine reaches whatever
// process actually talks to the chain. The core never assumes a transport;
// callers inject an implementation.
package provider

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/domain"
)

// QuoteProvider is the external collaborator serving pool listings, swap
// quotes and pool adjacency. Implementations must bound every call; a call
// that cannot complete in time fails with KindProviderUnavailable (ListPools,
// ConnectedMints) or reports no route (GetQuote).
type QuoteProvider interface {
	// ListPools returns the current set of pools with decoded reserves.
	ListPools(ctx context.Context) ([]*domain.PoolInfo, error)

	// GetQuote estimates swapping amount of source into target through the
	// best direct pool. A (nil, nil) return signals no viable direct pool.
	GetQuote(ctx context.Context, source, target solana.PublicKey, amount float64) (*domain.Quote, error)

	// ConnectedMints returns every mint with at least one direct pool to
	// mint.
	ConnectedMints(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error)
}
