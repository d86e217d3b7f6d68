package http

import (
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/http/httputil"
	"github.com/SynclonSec/swaproute/internal/services/market"
)

type PoolHandler struct {
	cache        *market.PoolCache
	depthPercent float64
}

func NewPoolHandler(cache *market.PoolCache, depthPercent float64) *PoolHandler {
	if depthPercent <= 0 {
		depthPercent = market.DefaultDepthPercent
	}
	return &PoolHandler{cache: cache, depthPercent: depthPercent}
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/list", h.listPools)
	pub.GET("/pairs", h.getTokenPairs)
	pub.GET("/:address", h.getPool)
	pub.GET("/:address/liquidity-change", h.getLiquidityChange)
	pub.GET("/:address/depth", h.getDepth)
	pub.GET("/:address/impact", h.getImpact)
}

// PoolStatsResponse contains aggregated statistics about the pool cache
type PoolStatsResponse struct {
	// Number of pools in the current cache snapshot
	PoolCount int `json:"pool_count" example:"1247"`

	// Number of successful refresh cycles since service start
	RefreshCount uint64 `json:"refresh_count" example:"96"`
}

// getStats godoc
// @Summary Pool cache statistics
// @Tags pools
// @Produce json
// @Success 200 {object} httputil.Response{data=PoolStatsResponse}
// @Router /api/v1/pools/stats [get]
func (h *PoolHandler) getStats(c *gin.Context) {
	poolCount, refreshes := h.cache.Stats()
	httputil.Success(c, PoolStatsResponse{
		PoolCount:    poolCount,
		RefreshCount: refreshes,
	})
}

// PoolSummary is one pool row in a listing
type PoolSummary struct {
	Address     string `json:"address" example:"HJPjoWUrhoZzkNfRpHuieeFk9WcZWjwy6PBjZ81ngndJ"`
	TokenAMint  string `json:"token_a_mint" example:"So11111111111111111111111111111111111111112"`
	TokenBMint  string `json:"token_b_mint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	TokenAName  string `json:"token_a_symbol" example:"SOL"`
	TokenBName  string `json:"token_b_symbol" example:"USDC"`
	TotalSupply string `json:"total_supply" example:"25000000"`
	Version     int    `json:"version" example:"4"`
}

// PoolListResponse contains a filtered, paginated pool listing
type PoolListResponse struct {
	Pools []PoolSummary `json:"pools"`
	Total int           `json:"total" example:"1247"`
	Page  int           `json:"page" example:"1"`
	Limit int           `json:"limit" example:"100"`
	Pages int           `json:"pages" example:"13"`
}

// listPools godoc
// @Summary List pools with optional base/quote/liquidity filters
// @Tags pools
// @Produce json
// @Param baseMint query string false "Filter pools containing this mint"
// @Param quoteMint query string false "Filter pools containing this mint"
// @Param minLiquidity query number false "Minimum totalSupply liquidity"
// @Param page query int false "Page (1-indexed)"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} httputil.Response{data=PoolListResponse}
// @Router /api/v1/pools/list [get]
func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	var baseMint, quoteMint *solana.PublicKey
	if raw := c.Query("baseMint"); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			httputil.BadRequest(c, "invalid baseMint")
			return
		}
		baseMint = &pk
	}
	if raw := c.Query("quoteMint"); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			httputil.BadRequest(c, "invalid quoteMint")
			return
		}
		quoteMint = &pk
	}
	minLiquidity, _ := strconv.ParseFloat(c.DefaultQuery("minLiquidity", "0"), 64)

	matched, err := h.cache.FindPools(c.Request.Context(), baseMint, quoteMint, minLiquidity)
	if err != nil {
		httputil.ServiceUnavailable(c, "no pool data available")
		return
	}

	total := len(matched)
	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pools := make([]PoolSummary, 0, end-offset)
	for _, pool := range matched[offset:end] {
		pools = append(pools, PoolSummary{
			Address:     pool.Address.String(),
			TokenAMint:  pool.TokenA.Mint.String(),
			TokenBMint:  pool.TokenB.Mint.String(),
			TokenAName:  pool.TokenA.Symbol,
			TokenBName:  pool.TokenB.Symbol,
			TotalSupply: pool.Liquidity[domain.LiquidityTotalSupplyKey],
			Version:     pool.Version,
		})
	}

	httputil.Success(c, PoolListResponse{
		Pools: pools,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// TokenPairResponse is one normalized unordered mint pair
type TokenPairResponse struct {
	MintA string `json:"mint_a" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	MintB string `json:"mint_b" example:"So11111111111111111111111111111111111111112"`
}

// getTokenPairs godoc
// @Summary All distinct token pairs across cached pools
// @Tags pools
// @Produce json
// @Success 200 {object} httputil.Response{data=[]TokenPairResponse}
// @Router /api/v1/pools/pairs [get]
func (h *PoolHandler) getTokenPairs(c *gin.Context) {
	pairs := h.cache.TokenPairs()
	out := make([]TokenPairResponse, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, TokenPairResponse{MintA: p.MintA.String(), MintB: p.MintB.String()})
	}
	httputil.Success(c, out)
}

// PoolDetailResponse contains one pool's full record
type PoolDetailResponse struct {
	Address   string              `json:"address"`
	TokenA    TokenDetailResponse `json:"token_a"`
	TokenB    TokenDetailResponse `json:"token_b"`
	Liquidity map[string]string   `json:"liquidity"`
	Fees      map[string]string   `json:"fees"`
	Version   int                 `json:"version"`
}

// TokenDetailResponse is one side's token metadata
type TokenDetailResponse struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Reserve  string `json:"reserve,omitempty"`
	LogoURI  string `json:"logo_uri,omitempty"`
}

// getPool godoc
// @Summary Pool detail by address
// @Tags pools
// @Produce json
// @Param address path string true "Pool address"
// @Success 200 {object} httputil.Response{data=PoolDetailResponse}
// @Failure 404 {object} httputil.Response
// @Router /api/v1/pools/{address} [get]
func (h *PoolHandler) getPool(c *gin.Context) {
	pool, ok := h.lookupPool(c)
	if !ok {
		return
	}
	httputil.Success(c, PoolDetailResponse{
		Address:   pool.Address.String(),
		TokenA:    tokenDetail(pool.TokenA),
		TokenB:    tokenDetail(pool.TokenB),
		Liquidity: pool.Liquidity,
		Fees:      pool.Fees,
		Version:   pool.Version,
	})
}

// LiquidityChangeResponse reports liquidity drift over a trailing window
type LiquidityChangeResponse struct {
	ReserveAPercent  float64 `json:"reserve_a_percent"`
	ReserveBPercent  float64 `json:"reserve_b_percent"`
	LiquidityPercent float64 `json:"liquidity_percent"`
	Window           string  `json:"time_window" example:"24h0m0s"`
	Samples          int     `json:"samples" example:"12"`
}

// getLiquidityChange godoc
// @Summary Percent liquidity change for a pool over a trailing window
// @Tags pools
// @Produce json
// @Param address path string true "Pool address"
// @Param window query string false "Trailing window, Go duration (default: configured history window)"
// @Success 200 {object} httputil.Response{data=LiquidityChangeResponse}
// @Failure 404 {object} httputil.Response "Unknown pool or insufficient history"
// @Router /api/v1/pools/{address}/liquidity-change [get]
func (h *PoolHandler) getLiquidityChange(c *gin.Context) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid pool address")
		return
	}

	var window time.Duration
	if raw := c.Query("window"); raw != "" {
		window, err = time.ParseDuration(raw)
		if err != nil {
			httputil.BadRequest(c, "invalid window")
			return
		}
	}

	change, err := h.cache.LiquidityChange(address, window)
	if err != nil {
		if domain.KindOf(err) == domain.KindInsufficientHistory {
			httputil.NotFound(c, "insufficient data")
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}

	httputil.Success(c, LiquidityChangeResponse{
		ReserveAPercent:  change.ReserveAPercent,
		ReserveBPercent:  change.ReserveBPercent,
		LiquidityPercent: change.LiquidityPercent,
		Window:           change.Window.String(),
		Samples:          change.Samples,
	})
}

// DepthResponse is constant-product market depth at a price move
type DepthResponse struct {
	DepthUpper   float64 `json:"depth_upper" example:"50248.8"`
	DepthLower   float64 `json:"depth_lower" example:"49748.4"`
	CurrentPrice float64 `json:"current_price" example:"50"`
	DepthPercent float64 `json:"depth_percent" example:"1.0"`
}

// getDepth godoc
// @Summary Market depth for a pool at a given price move
// @Tags pools
// @Produce json
// @Param address path string true "Pool address"
// @Param percent query number false "Price move percent (default 1.0)"
// @Success 200 {object} httputil.Response{data=DepthResponse}
// @Router /api/v1/pools/{address}/depth [get]
func (h *PoolHandler) getDepth(c *gin.Context) {
	pool, ok := h.lookupPool(c)
	if !ok {
		return
	}

	percent := h.depthPercent
	if raw := c.Query("percent"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p <= 0 {
			httputil.BadRequest(c, "invalid percent")
			return
		}
		percent = p
	}

	depth := market.MarketDepth(pool, percent)
	httputil.Success(c, DepthResponse{
		DepthUpper:   depth.DepthUpper,
		DepthLower:   depth.DepthLower,
		CurrentPrice: depth.CurrentPrice,
		DepthPercent: percent,
	})
}

// ImpactResponse is estimated price impact for a one-sided deposit
type ImpactResponse struct {
	ImpactPercent float64 `json:"impact_percent" example:"0.99"`
	Mint          string  `json:"mint"`
	AmountIn      float64 `json:"amount_in"`
}

// getImpact godoc
// @Summary Price impact of depositing an amount of one pool mint
// @Tags pools
// @Produce json
// @Param address path string true "Pool address"
// @Param mint query string true "Deposited mint"
// @Param amount query number true "Deposit amount"
// @Success 200 {object} httputil.Response{data=ImpactResponse}
// @Failure 400 {object} httputil.Response "Mint not in pool"
// @Router /api/v1/pools/{address}/impact [get]
func (h *PoolHandler) getImpact(c *gin.Context) {
	pool, ok := h.lookupPool(c)
	if !ok {
		return
	}

	mint, err := solana.PublicKeyFromBase58(c.Query("mint"))
	if err != nil {
		httputil.BadRequest(c, "invalid mint")
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		httputil.BadRequest(c, "invalid amount")
		return
	}

	impact, err := market.PriceImpact(pool, amount, mint)
	if err != nil {
		httputil.BadRequest(c, "token not in pool")
		return
	}

	httputil.Success(c, ImpactResponse{
		ImpactPercent: impact,
		Mint:          mint.String(),
		AmountIn:      amount,
	})
}

func (h *PoolHandler) lookupPool(c *gin.Context) (*domain.PoolInfo, bool) {
	address, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid pool address")
		return nil, false
	}
	pool, ok := h.cache.PoolByAddress(address)
	if !ok {
		httputil.NotFound(c, "pool not found")
		return nil, false
	}
	return pool, true
}

func tokenDetail(t domain.TokenMetadata) TokenDetailResponse {
	return TokenDetailResponse{
		Mint:     t.Mint.String(),
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
		Reserve:  t.Reserve,
		LogoURI:  t.LogoURI,
	}
}
