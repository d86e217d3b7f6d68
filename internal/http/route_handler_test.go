package http

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/SynclonSec/swaproute/internal/config"
	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/services/router"
)

// quotingProvider answers quotes from a fixed source>target table.
type quotingProvider struct {
	quotes map[string]*domain.Quote
}

func (q *quotingProvider) ListPools(ctx context.Context) ([]*domain.PoolInfo, error) {
	return nil, nil
}

func (q *quotingProvider) GetQuote(ctx context.Context, source, target solana.PublicKey, amount float64) (*domain.Quote, error) {
	quote, ok := q.quotes[source.String()+">"+target.String()]
	if !ok {
		return nil, nil
	}
	out := *quote
	out.InputAmount = amount
	return &out, nil
}

func (q *quotingProvider) ConnectedMints(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error) {
	return nil, nil
}

func routeTestRouter(qp *quotingProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	optimizer := router.NewRouteOptimizer(qp, config.RouterConfig{
		MaxHops:         3,
		MaxRoutes:       5,
		FeeBpsThreshold: 100,
	})

	r := gin.New()
	h := NewRouteHandler(optimizer)
	h.SetRoutes(r.Group("/api/v1" + h.Root()))
	return r
}

func TestRoutesEndpoint(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	target := solana.NewWallet().PublicKey()

	qp := &quotingProvider{quotes: map[string]*domain.Quote{
		source.String() + ">" + target.String(): {
			OutputAmount: 995,
			TradeFeeBps:  25,
			OwnerFeeBps:  5,
			PoolAddress:  solana.NewWallet().PublicKey(),
		},
	}}
	r := routeTestRouter(qp)

	w := httptest.NewRecorder()
	url := fmt.Sprintf("/api/v1/routes?sourceMint=%s&targetMint=%s&amount=1000", source, target)
	r.ServeHTTP(w, httptest.NewRequest("GET", url, nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	data := decodeResponse[RouteListResponse](t, w.Body.Bytes()).Data
	if len(data.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(data.Routes))
	}
	best := data.Routes[0]
	if best.TotalOutput != 995 || best.HopCount != 1 {
		t.Errorf("route = %+v, want output 995 with 1 hop", best)
	}
	if best.TotalFees != 30 {
		t.Errorf("TotalFees = %v, want 30", best.TotalFees)
	}
}

func TestRoutesEndpointNoRoute(t *testing.T) {
	r := routeTestRouter(&quotingProvider{quotes: map[string]*domain.Quote{}})

	w := httptest.NewRecorder()
	url := fmt.Sprintf("/api/v1/routes?sourceMint=%s&targetMint=%s&amount=1000",
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	r.ServeHTTP(w, httptest.NewRequest("GET", url, nil))

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200 (empty route list is a valid answer)", w.Code)
	}
	data := decodeResponse[RouteListResponse](t, w.Body.Bytes()).Data
	if len(data.Routes) != 0 {
		t.Errorf("routes = %d, want 0", len(data.Routes))
	}
}

func TestRoutesEndpointValidation(t *testing.T) {
	r := routeTestRouter(&quotingProvider{quotes: map[string]*domain.Quote{}})
	mint := solana.NewWallet().PublicKey()

	tests := []struct {
		name string
		url  string
	}{
		{"missing mints", "/api/v1/routes?amount=100"},
		{"bad amount", fmt.Sprintf("/api/v1/routes?sourceMint=%s&targetMint=%s&amount=-1", mint, solana.NewWallet().PublicKey())},
		{"same mint", fmt.Sprintf("/api/v1/routes?sourceMint=%s&targetMint=%s&amount=100", mint, mint)},
		{"bad maxHops", fmt.Sprintf("/api/v1/routes?sourceMint=%s&targetMint=%s&amount=100&maxHops=0", mint, solana.NewWallet().PublicKey())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.url, nil))
			if w.Code != 400 {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
