// Package router searches the implicit graph of mints connected by pools for
// the best sequences of swaps converting a source asset into a target asset.
// The quote provider is the oracle for edge weights; the graph is expanded
// lazily, one quote at a time.
package router

import (
	"context"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/SynclonSec/swaproute/internal/config"
	"github.com/SynclonSec/swaproute/internal/domain"
	"github.com/SynclonSec/swaproute/internal/metrics"
	"github.com/SynclonSec/swaproute/internal/provider"
	"github.com/SynclonSec/swaproute/internal/services"
)

// RouteOptimizer runs bounded best-first searches over the pool graph. It is
// stateless between invocations; every search owns its own frontier and
// visited set.
type RouteOptimizer struct {
	provider provider.QuoteProvider
	cfg      config.RouterConfig
	logger   *services.ServiceLogger
}

func NewRouteOptimizer(qp provider.QuoteProvider, cfg config.RouterConfig) *RouteOptimizer {
	return &RouteOptimizer{
		provider: qp,
		cfg:      cfg,
		logger:   services.NewServiceLogger("router.RouteOptimizer"),
	}
}

// SearchOptions override the configured defaults for one search. Zero values
// fall back to the config.
type SearchOptions struct {
	MaxHops         int
	MaxRoutes       int
	FeeBpsThreshold float64
}

func (o *RouteOptimizer) options(opts SearchOptions) SearchOptions {
	if opts.MaxHops <= 0 {
		opts.MaxHops = o.cfg.MaxHops
	}
	if opts.MaxRoutes <= 0 {
		opts.MaxRoutes = o.cfg.MaxRoutes
	}
	if opts.FeeBpsThreshold <= 0 {
		opts.FeeBpsThreshold = o.cfg.FeeBpsThreshold
	}
	return opts
}

// FindRoutes searches for up to MaxRoutes routes converting amount of
// sourceMint into targetMint within MaxHops hops, ranked by total output
// descending. An exhausted search returns an empty slice, never an error;
// individual quote failures are soft and only prune the edge they belong to.
func (o *RouteOptimizer) FindRoutes(ctx context.Context, sourceMint, targetMint solana.PublicKey, amount float64, opts SearchOptions) ([]*domain.OptimizedRoute, error) {
	opts = o.options(opts)
	start := time.Now()
	defer func() {
		metrics.RouteSearchDuration.Observe(time.Since(start).Seconds())
	}()

	viable := o.search(ctx, sourceMint, targetMint, amount, opts)
	if len(viable) > opts.MaxRoutes {
		viable = viable[:opts.MaxRoutes]
	}

	routes := make([]*domain.OptimizedRoute, 0, len(viable))
	for _, path := range viable {
		routes = append(routes, o.buildRoute(ctx, path, amount))
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].TotalOutput > routes[j].TotalOutput
	})

	if len(routes) == 0 {
		metrics.RouteSearches.WithLabelValues("empty").Inc()
	} else {
		metrics.RouteSearches.WithLabelValues("ok").Inc()
	}
	metrics.RoutesReturned.Observe(float64(len(routes)))

	o.logger.Debug().
		Str("source", sourceMint.String()).
		Str("target", targetMint.String()).
		Int("routes", len(routes)).
		Msg("route search finished")
	return routes, nil
}

// search runs the frontier expansion and returns completed paths in
// discovery order.
func (o *RouteOptimizer) search(ctx context.Context, sourceMint, targetMint solana.PublicKey, amount float64, opts SearchOptions) []*searchPath {
	front := newFrontier()
	visited := make(map[solana.PublicKey]bool)
	var viable []*searchPath

	// Seed with the direct market when one exists. Without one the search
	// falls back to expanding the source mint's neighbors, so a missing
	// direct route does not end the search.
	if quote := o.quote(ctx, sourceMint, targetMint, amount); quote != nil {
		front.push(&searchPath{
			steps: []domain.SwapStep{{
				SourceMint:  sourceMint,
				TargetMint:  targetMint,
				PoolAddress: quote.PoolAddress,
				InAmount:    amount,
				OutAmount:   quote.OutputAmount,
				Fees:        quote.TotalFee(),
			}},
			output: quote.OutputAmount,
		})
	} else {
		visited[sourceMint] = true
		o.expand(ctx, front, nil, sourceMint, amount, opts)
	}

	for round := 0; round < opts.MaxHops-1; round++ {
		if front.Len() == 0 {
			break
		}

		path := front.pop()
		last := path.last()

		if last.TargetMint.Equals(targetMint) {
			viable = append(viable, path)
			continue
		}

		// Visited marking happens only here, at pop time. Multiple
		// in-flight paths through the same unexpanded mint can coexist on
		// the frontier; the first popped wins and the rest are skipped.
		// Redundant but never incorrect, and bounded by the round budget.
		if visited[last.TargetMint] {
			continue
		}
		visited[last.TargetMint] = true

		o.expand(ctx, front, path, last.TargetMint, last.OutAmount, opts)
	}

	return viable
}

// expand pushes every affordable one-hop extension from a mint onto the
// frontier. A nil base starts fresh single-hop paths; an adjacency failure
// just prunes this branch.
func (o *RouteOptimizer) expand(ctx context.Context, front *frontier, base *searchPath, from solana.PublicKey, amount float64, opts SearchOptions) {
	connected, err := o.provider.ConnectedMints(ctx, from)
	if err != nil {
		o.logger.Debug().Err(err).Str("mint", from.String()).Msg("adjacency lookup failed, pruning")
		return
	}

	for _, next := range connected {
		quote := o.quote(ctx, from, next, amount)
		if quote == nil || quote.TradeFeeBps > opts.FeeBpsThreshold {
			continue
		}
		step := domain.SwapStep{
			SourceMint:  from,
			TargetMint:  next,
			PoolAddress: quote.PoolAddress,
			InAmount:    amount,
			OutAmount:   quote.OutputAmount,
			Fees:        quote.TotalFee(),
		}
		if base == nil {
			front.push(&searchPath{steps: []domain.SwapStep{step}, output: step.OutAmount})
			continue
		}
		front.push(base.extend(step))
	}
}

// buildRoute converts a completed path into the caller-facing route with its
// aggregates.
func (o *RouteOptimizer) buildRoute(ctx context.Context, path *searchPath, inputAmount float64) *domain.OptimizedRoute {
	totalFees := 0.0
	for _, step := range path.steps {
		totalFees += step.Fees
	}

	return &domain.OptimizedRoute{
		Path:        path.steps,
		TotalInput:  inputAmount,
		TotalOutput: path.last().OutAmount,
		TotalFees:   totalFees,
		PriceImpact: o.priceImpact(ctx, path.steps),
	}
}

// priceImpact estimates cumulative impact as (1 - prod(actual/fair)) * 100,
// re-quoting each hop at its exact input to obtain the fair price. The
// re-quote observes current market state, so impact reflects the market at
// aggregation time rather than at discovery time; a hop whose re-quote fails
// contributes no impact.
func (o *RouteOptimizer) priceImpact(ctx context.Context, steps []domain.SwapStep) float64 {
	impact := 1.0
	for _, step := range steps {
		quote := o.quote(ctx, step.SourceMint, step.TargetMint, step.InAmount)
		if quote == nil || quote.InputAmount == 0 || step.InAmount == 0 {
			continue
		}
		fairPrice := quote.OutputAmount / quote.InputAmount
		if fairPrice == 0 {
			continue
		}
		actualPrice := step.OutAmount / step.InAmount
		impact *= actualPrice / fairPrice
	}
	return (1 - impact) * 100
}

// quote wraps the provider call; any failure reads as "no route via this
// edge".
func (o *RouteOptimizer) quote(ctx context.Context, source, target solana.PublicKey, amount float64) *domain.Quote {
	quote, err := o.provider.GetQuote(ctx, source, target, amount)
	if err != nil || quote == nil {
		metrics.ProviderQuotes.WithLabelValues("none").Inc()
		return nil
	}
	metrics.ProviderQuotes.WithLabelValues("ok").Inc()
	return quote
}
