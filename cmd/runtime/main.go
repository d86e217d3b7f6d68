package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SynclonSec/swaproute/internal/adapters/persistence"
	"github.com/SynclonSec/swaproute/internal/common"
	"github.com/SynclonSec/swaproute/internal/config"
	"github.com/SynclonSec/swaproute/internal/http"
	"github.com/SynclonSec/swaproute/internal/provider"
	"github.com/SynclonSec/swaproute/internal/services/market"
	"github.com/SynclonSec/swaproute/internal/services/router"
)

// @title Swaproute API
// @version 1.0
// @description Solana token swap routing API: cached pool state with liquidity
// @description history, constant-product market analytics, and multi-hop route
// @description optimization over an external quote provider.
// @description
// @description ## Endpoints
// @description - **Pools**: listing, detail, token pairs, liquidity change, market depth, price impact
// @description - **Routes**: ranked multi-hop swap routes between two mints
// @description
// @description ## Rate Limit
// @description 10 requests/second per client IP (burst: 20)
// @BasePath /
// @schemes http
// @tag.name pools
// @tag.description Cached pool state and constant-product market analytics
// @tag.name routes
// @tag.description Multi-hop swap route discovery and ranking

func main() {
	common.InitRuntime()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	generalConf := &config.GeneralConfig{}
	marketConf := &config.MarketConfig{}
	routerConf := &config.RouterConfig{}
	providerConf := &config.ProviderConfig{}
	for _, c := range []interface{ Load() error }{generalConf, marketConf, routerConf, providerConf} {
		if err := c.Load(); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}

	setupLogging(generalConf)

	qp := provider.NewHTTPProvider(providerConf.BaseURL, providerConf.QuoteTimeout)
	store := persistence.NewSnapshotStore(marketConf.SnapshotPath, marketConf.CacheTTL)
	tracker := market.NewLiquidityTracker()
	cache := market.NewPoolCache(qp, store, tracker, *marketConf)
	optimizer := router.NewRouteOptimizer(qp, *routerConf)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cache.Refresh(rootCtx, true); err != nil {
		log.Warn().Err(err).Msg("initial pool refresh failed, continuing without data")
	}
	go refreshLoop(rootCtx, cache, marketConf.CacheTTL)

	httpSvc := http.NewHTTPService(generalConf, cache, optimizer, routerConf.DepthPercent)
	go func() {
		if err := httpSvc.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	cancel()
	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("shutdown complete")
}

// refreshLoop keeps the pool cache warm so API reads rarely pay the refresh
// cost inline.
func refreshLoop(ctx context.Context, cache *market.PoolCache, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cache.Refresh(ctx, false); err != nil {
				log.Warn().Err(err).Msg("background pool refresh failed")
			}
		}
	}
}

func setupLogging(conf *config.GeneralConfig) {
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if conf.Env == config.DevEnv {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
