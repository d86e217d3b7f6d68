package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/SynclonSec/swaproute/internal/domain"
)

// HTTPProvider reaches a quote service over JSON/HTTP. Every call carries the
// configured timeout; transport failures and undecodable payloads surface as
// KindProviderUnavailable so the cache can fall back to persisted state.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type poolRecord struct {
	PoolAddress string            `json:"poolAddress"`
	TokenA      tokenRecord       `json:"tokenA"`
	TokenB      tokenRecord       `json:"tokenB"`
	Liquidity   map[string]string `json:"liquidity"`
	Fees        map[string]string `json:"fees"`
	Version     int               `json:"version"`
}

type tokenRecord struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Reserve  string `json:"reserve"`
	LogoURI  string `json:"logoURI,omitempty"`
}

type quoteRecord struct {
	InputToken struct {
		Amount float64 `json:"amount"`
	} `json:"inputToken"`
	OutputToken struct {
		EstimatedAmount float64 `json:"estimatedAmount"`
	} `json:"outputToken"`
	Fees struct {
		TradeFee float64 `json:"tradeFee"`
		OwnerFee float64 `json:"ownerFee"`
	} `json:"fees"`
	PoolAddresses []string `json:"poolAddresses"`
}

func (p *HTTPProvider) ListPools(ctx context.Context) ([]*domain.PoolInfo, error) {
	body, err := p.get(ctx, "/pools", nil)
	if err != nil {
		return nil, err
	}

	var records []poolRecord
	if err := sonic.Unmarshal(body, &records); err != nil {
		return nil, domain.WrapError(domain.KindProviderUnavailable, err, "malformed pool listing")
	}

	pools := make([]*domain.PoolInfo, 0, len(records))
	for i := range records {
		pool, err := recordToPool(&records[i])
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (p *HTTPProvider) GetQuote(ctx context.Context, source, target solana.PublicKey, amount float64) (*domain.Quote, error) {
	body, err := p.get(ctx, "/quote", url.Values{
		"sourceMint": {source.String()},
		"targetMint": {target.String()},
		"amount":     {strconv.FormatFloat(amount, 'f', -1, 64)},
	})
	if err != nil {
		// Bounded timeout or transport failure reads as no route via this
		// edge; the caller decides whether that is fatal.
		log.Debug().Err(err).Str("source", source.String()).Str("target", target.String()).Msg("[provider] quote unavailable")
		return nil, nil
	}
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}

	var rec quoteRecord
	if err := sonic.Unmarshal(body, &rec); err != nil {
		return nil, nil
	}
	if len(rec.PoolAddresses) == 0 {
		return nil, nil
	}
	poolAddr, err := solana.PublicKeyFromBase58(rec.PoolAddresses[0])
	if err != nil {
		return nil, nil
	}

	return &domain.Quote{
		InputAmount:  rec.InputToken.Amount,
		OutputAmount: rec.OutputToken.EstimatedAmount,
		TradeFeeBps:  rec.Fees.TradeFee,
		OwnerFeeBps:  rec.Fees.OwnerFee,
		PoolAddress:  poolAddr,
	}, nil
}

func (p *HTTPProvider) ConnectedMints(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error) {
	body, err := p.get(ctx, "/connected", url.Values{"mint": {mint.String()}})
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, domain.WrapError(domain.KindProviderUnavailable, err, "malformed connected-mints response")
	}

	mints := make([]solana.PublicKey, 0, len(raw))
	for _, s := range raw {
		pk, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			continue
		}
		mints = append(mints, pk)
	}
	return mints, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := p.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.WrapError(domain.KindProviderUnavailable, err, "build request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.WrapError(domain.KindProviderUnavailable, err, "provider timed out")
		}
		return nil, domain.WrapError(domain.KindProviderUnavailable, err, "provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Errorf(domain.KindProviderUnavailable, "provider returned %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.KindProviderUnavailable, err, "read provider response")
	}
	return body, nil
}

func recordToPool(rec *poolRecord) (*domain.PoolInfo, error) {
	address, err := solana.PublicKeyFromBase58(rec.PoolAddress)
	if err != nil {
		return nil, domain.Errorf(domain.KindInvalidPoolData, "invalid pool address %q", rec.PoolAddress)
	}
	tokenA, err := recordToToken(&rec.TokenA)
	if err != nil {
		return nil, fmt.Errorf("pool %s tokenA: %w", rec.PoolAddress, err)
	}
	tokenB, err := recordToToken(&rec.TokenB)
	if err != nil {
		return nil, fmt.Errorf("pool %s tokenB: %w", rec.PoolAddress, err)
	}

	pool := &domain.PoolInfo{
		Address:     address,
		TokenA:      tokenA,
		TokenB:      tokenB,
		Liquidity:   rec.Liquidity,
		Fees:        rec.Fees,
		Version:     rec.Version,
		LastUpdated: time.Now(),
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

func recordToToken(rec *tokenRecord) (domain.TokenMetadata, error) {
	mint, err := solana.PublicKeyFromBase58(rec.Mint)
	if err != nil {
		return domain.TokenMetadata{}, domain.Errorf(domain.KindInvalidPoolData, "invalid mint %q", rec.Mint)
	}
	return domain.TokenMetadata{
		Mint:     mint,
		Symbol:   rec.Symbol,
		Name:     rec.Name,
		Decimals: rec.Decimals,
		Reserve:  rec.Reserve,
		LogoURI:  rec.LogoURI,
	}, nil
}
