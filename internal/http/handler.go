package http

import (
	"context"
	gohttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SynclonSec/swaproute/internal/config"
	"github.com/SynclonSec/swaproute/internal/http/httputil"
	"github.com/SynclonSec/swaproute/internal/http/middlewares"
	"github.com/SynclonSec/swaproute/internal/services/market"
	"github.com/SynclonSec/swaproute/internal/services/router"
)

const API_VERSION = "v1"

type HTTPService struct {
	rateLimiter *middlewares.RateLimiter
	server      *gohttp.Server
	conf        *config.GeneralConfig

	handlers []httputil.IHttpHandler
}

func NewHTTPService(conf *config.GeneralConfig, cache *market.PoolCache, optimizer *router.RouteOptimizer, depthPercent float64) *HTTPService {
	return &HTTPService{
		conf:        conf,
		rateLimiter: middlewares.NewRateLimiter(10, 20),
		handlers: []httputil.IHttpHandler{
			NewPoolHandler(cache, depthPercent),
			NewRouteHandler(optimizer),
		},
	}
}

func (svc *HTTPService) Start() error {
	r := gin.Default()
	r.Use(gin.Recovery())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	corsConf.AllowCredentials = true
	corsConf.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	r.Use(svc.rateLimiter.RateLimitMiddleware())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	svc.setupHandlers(pub)

	svc.server = &gohttp.Server{
		Addr:    svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler: r,
	}
	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}

	return nil
}

func (svc *HTTPService) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *HTTPService) setupHandlers(rootPub *gin.RouterGroup) {
	for _, h := range svc.handlers {
		h.SetRoutes(rootPub.Group(h.Root()))
	}
}
