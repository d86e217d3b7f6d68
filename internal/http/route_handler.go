package http

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/http/httputil"
	"github.com/SynclonSec/swaproute/internal/services/router"
)

type RouteHandler struct {
	optimizer *router.RouteOptimizer
}

func NewRouteHandler(optimizer *router.RouteOptimizer) *RouteHandler {
	return &RouteHandler{optimizer: optimizer}
}

func (h *RouteHandler) Root() string {
	return "/routes"
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup) {
	pub.GET("", h.findRoutes)
}

// SwapStepResponse is one hop of a route
type SwapStepResponse struct {
	SourceMint  string  `json:"source_mint"`
	TargetMint  string  `json:"target_mint"`
	PoolAddress string  `json:"pool_address"`
	InAmount    float64 `json:"in_amount"`
	OutAmount   float64 `json:"out_amount"`
	Fees        float64 `json:"fees"`
}

// RouteResponse is one ranked swap route
type RouteResponse struct {
	Path        []SwapStepResponse `json:"path"`
	TotalInput  float64            `json:"total_input"`
	TotalOutput float64            `json:"total_output"`
	TotalFees   float64            `json:"total_fees"`
	PriceImpact float64            `json:"price_impact"`
	HopCount    int                `json:"hop_count"`
}

// RouteListResponse is the ranked route listing for one request
type RouteListResponse struct {
	SourceMint string          `json:"source_mint"`
	TargetMint string          `json:"target_mint"`
	Amount     float64         `json:"amount"`
	Routes     []RouteResponse `json:"routes"`
}

// findRoutes godoc
// @Summary Find optimized swap routes between two mints
// @Tags routes
// @Produce json
// @Param sourceMint query string true "Input mint"
// @Param targetMint query string true "Output mint"
// @Param amount query number true "Input amount"
// @Param maxHops query int false "Maximum hops (default from config)"
// @Param maxRoutes query int false "Maximum routes returned"
// @Param feeBpsThreshold query number false "Reject hops whose trade fee exceeds this, in bps"
// @Success 200 {object} httputil.Response{data=RouteListResponse}
// @Failure 404 {object} httputil.Response "No viable route"
// @Router /api/v1/routes [get]
func (h *RouteHandler) findRoutes(c *gin.Context) {
	sourceMint, err := solana.PublicKeyFromBase58(c.Query("sourceMint"))
	if err != nil {
		httputil.BadRequest(c, "invalid sourceMint")
		return
	}
	targetMint, err := solana.PublicKeyFromBase58(c.Query("targetMint"))
	if err != nil {
		httputil.BadRequest(c, "invalid targetMint")
		return
	}
	if sourceMint.Equals(targetMint) {
		httputil.BadRequest(c, "sourceMint and targetMint must differ")
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		httputil.BadRequest(c, "invalid amount")
		return
	}

	var opts router.SearchOptions
	if raw := c.Query("maxHops"); raw != "" {
		opts.MaxHops, err = strconv.Atoi(raw)
		if err != nil || opts.MaxHops < 1 {
			httputil.BadRequest(c, "invalid maxHops")
			return
		}
	}
	if raw := c.Query("maxRoutes"); raw != "" {
		opts.MaxRoutes, err = strconv.Atoi(raw)
		if err != nil || opts.MaxRoutes < 1 {
			httputil.BadRequest(c, "invalid maxRoutes")
			return
		}
	}
	if raw := c.Query("feeBpsThreshold"); raw != "" {
		opts.FeeBpsThreshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || opts.FeeBpsThreshold < 0 {
			httputil.BadRequest(c, "invalid feeBpsThreshold")
			return
		}
	}

	routes, err := h.optimizer.FindRoutes(c.Request.Context(), sourceMint, targetMint, amount, opts)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindRouteUnavailable:
			httputil.NotFound(c, "no viable route")
		case domain.KindProviderUnavailable:
			httputil.ServiceUnavailable(c, "quote provider unavailable")
		default:
			httputil.InternalError(c, err.Error())
		}
		return
	}

	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeResponse(r))
	}

	httputil.Success(c, RouteListResponse{
		SourceMint: sourceMint.String(),
		TargetMint: targetMint.String(),
		Amount:     amount,
		Routes:     out,
	})
}

func routeResponse(r *domain.OptimizedRoute) RouteResponse {
	path := make([]SwapStepResponse, 0, len(r.Path))
	for _, step := range r.Path {
		path = append(path, SwapStepResponse{
			SourceMint:  step.SourceMint.String(),
			TargetMint:  step.TargetMint.String(),
			PoolAddress: step.PoolAddress.String(),
			InAmount:    step.InAmount,
			OutAmount:   step.OutAmount,
			Fees:        step.Fees,
		})
	}
	return RouteResponse{
		Path:        path,
		TotalInput:  r.TotalInput,
		TotalOutput: r.TotalOutput,
		TotalFees:   r.TotalFees,
		PriceImpact: r.PriceImpact,
		HopCount:    len(r.Path),
	}
}
