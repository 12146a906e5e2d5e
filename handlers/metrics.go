package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tower-anomaly-api/models"
	"tower-anomaly-api/services"
)

type MetricsHandler struct {
	svc   *services.BandService
	cache *services.CacheService
}

func NewMetricsHandler(svc *services.BandService, cache *services.CacheService) *MetricsHandler {
	return &MetricsHandler{svc: svc, cache: cache}
}

// GetBandDistribution returns how many towers carry how many bands, per
// provider and overall, with the EN-DC breakdown.
func (h *MetricsHandler) GetBandDistribution(c *gin.Context) {
	defer observe("band_distribution")()

	const cacheKey = "metrics:band-distribution"

	var cached models.BandDistributionMetric
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		services.CacheHits.WithLabelValues("band_distribution").Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	services.CacheMisses.WithLabelValues("band_distribution").Inc()

	metric, err := h.svc.Distribution(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	go h.cache.Set(context.Background(), cacheKey, metric, 60*time.Second)
	c.JSON(http.StatusOK, metric)
}
