package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryDuration tracks wall time of the aggregation queries backing
	// each dashboard endpoint.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aerocell_api_query_duration_seconds",
		Help:    "Duration of aggregation queries by endpoint.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"endpoint"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aerocell_api_cache_hits_total",
		Help: "Total cache hits by endpoint.",
	}, []string{"endpoint"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aerocell_api_cache_misses_total",
		Help: "Total cache misses by endpoint.",
	}, []string{"endpoint"})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aerocell_api_ws_clients",
		Help: "Currently connected websocket clients.",
	})
)
