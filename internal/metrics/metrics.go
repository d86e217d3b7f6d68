package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool cache metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swaproute_pool_count",
		Help: "Number of pools in the current cache snapshot",
	})

	PoolRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_pool_refreshes_total",
			Help: "Total number of pool refresh attempts",
		},
		[]string{"status"},
	)

	PoolRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_pool_refresh_duration_seconds",
		Help:    "Pool refresh duration in seconds, including rate-limit wait",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_snapshot_loads_total",
			Help: "Total number of persisted snapshot load attempts",
		},
		[]string{"status"},
	)

	HistoryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swaproute_history_entries",
		Help: "Total liquidity history entries retained across all pools",
	})

	// Route search metrics
	RouteSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_route_searches_total",
			Help: "Total number of route searches",
		},
		[]string{"status"},
	)

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_route_search_duration_seconds",
		Help:    "Route search duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	RoutesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swaproute_routes_returned",
		Help:    "Number of routes returned per search",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})

	ProviderQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_provider_quotes_total",
			Help: "Total number of quote requests issued to the provider",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swaproute_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swaproute_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
