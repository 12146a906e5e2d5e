package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"tower-anomaly-api/models"
	"tower-anomaly-api/services"
)

const defaultModelVersion = "gnn-link-pred-v1"

type AnomalyHandler struct {
	svc   *services.AnomalyService
	cache *services.CacheService
}

func NewAnomalyHandler(svc *services.AnomalyService, cache *services.CacheService) *AnomalyHandler {
	return &AnomalyHandler{svc: svc, cache: cache}
}

// GetVersions lists available model versions with run IDs and row counts.
func (h *AnomalyHandler) GetVersions(c *gin.Context) {
	defer observe("anomalies_versions")()

	versions, err := h.svc.Versions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetStats returns aggregate score statistics for a model version.
func (h *AnomalyHandler) GetStats(c *gin.Context) {
	defer observe("anomalies_stats")()

	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)
	cacheKey := fmt.Sprintf("anomalies:stats:%s", modelVersion)

	var cached models.AnomalyScoreStats
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		services.CacheHits.WithLabelValues("anomalies_stats").Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	services.CacheMisses.WithLabelValues("anomalies_stats").Inc()

	stats, err := h.svc.Stats(c.Request.Context(), modelVersion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	go h.cache.Set(context.Background(), cacheKey, stats, 30*time.Second)
	c.JSON(http.StatusOK, stats)
}

// GetTop returns the highest-scoring towers above a percentile threshold.
func (h *AnomalyHandler) GetTop(c *gin.Context) {
	defer observe("anomalies_top")()

	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)
	limit, err := intQuery(c, "limit", 100, 1, 1000)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minPercentile, err := floatQuery(c, "min_percentile", 95.0, 0, 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.svc.TopAnomalies(c.Request.Context(), modelVersion, limit, minPercentile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetInBounds returns ranked scores for towers inside a bounding box. Used by
// the map when zoomed into an area.
func (h *AnomalyHandler) GetInBounds(c *gin.Context) {
	defer observe("anomalies_in_bounds")()

	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)

	minLat, err := requiredFloatQuery(c, "min_lat", -90, 90)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxLat, err := requiredFloatQuery(c, "max_lat", -90, 90)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minLng, err := requiredFloatQuery(c, "min_lng", -180, 180)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxLng, err := requiredFloatQuery(c, "max_lng", -180, 180)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minPercentile, err := floatQuery(c, "min_percentile", 0.0, 0, 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := intQuery(c, "limit", 1000, 1, 5000)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bounds := services.Bounds{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	rows, err := h.svc.InBounds(c.Request.Context(), modelVersion, bounds, minPercentile, limit)
	if errors.Is(err, services.ErrInvalidBounds) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetDistribution returns the score histogram for a model version.
func (h *AnomalyHandler) GetDistribution(c *gin.Context) {
	defer observe("anomalies_distribution")()

	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)
	buckets, err := intQuery(c, "buckets", 20, 5, 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cacheKey := fmt.Sprintf("anomalies:distribution:%s:%d", modelVersion, buckets)
	var cached []models.ScoreBucket
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		services.CacheHits.WithLabelValues("anomalies_distribution").Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	services.CacheMisses.WithLabelValues("anomalies_distribution").Inc()

	distribution, err := h.svc.Histogram(c.Request.Context(), modelVersion, buckets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	go h.cache.Set(context.Background(), cacheKey, distribution, 30*time.Second)
	c.JSON(http.StatusOK, distribution)
}

// GetTowerScore returns the stored score for one tower.
func (h *AnomalyHandler) GetTowerScore(c *gin.Context) {
	defer observe("anomalies_tower")()

	towerID, err := strconv.Atoi(c.Param("tower_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower_id"})
		return
	}
	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)

	score, err := h.svc.TowerScore(c.Request.Context(), towerID, modelVersion)
	if errors.Is(err, services.ErrScoreNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no anomaly score for tower"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, score)
}

// GetMetrics returns the combined dashboard payload: stats, distribution,
// and top anomalies in one response.
func (h *AnomalyHandler) GetMetrics(c *gin.Context) {
	defer observe("anomalies_metrics")()

	modelVersion := c.DefaultQuery("model_version", defaultModelVersion)
	topN, err := intQuery(c, "top_n", 20, 1, 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics, err := h.svc.Metrics(c.Request.Context(), modelVersion, topN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// observe times a handler and records it under the endpoint label.
func observe(endpoint string) func() {
	timer := prometheus.NewTimer(services.QueryDuration.WithLabelValues(endpoint))
	return func() { timer.ObserveDuration() }
}
