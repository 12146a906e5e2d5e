package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tower-anomaly-api/models"
)

// Bounds is a closed geographic rectangle.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// AnomalyService serves the read-only views over stored anomaly scores:
// version registry, summary statistics, histogram, and rankings. All methods
// are stateless single-query reads, safe to run concurrently with imports of
// other model versions.
type AnomalyService struct {
	db *gorm.DB
}

func NewAnomalyService(db *gorm.DB) *AnomalyService {
	return &AnomalyService{db: db}
}

// Versions lists the distinct (model_version, run_id) pairs with their row
// counts, newest versions first. One grouped query; a NULL run_id is its own
// pair, never merged with named runs.
func (s *AnomalyService) Versions(ctx context.Context) ([]models.ModelVersionInfo, error) {
	var versions []models.ModelVersionInfo
	err := s.db.WithContext(ctx).Raw(`
		SELECT model_version, run_id, COUNT(*) AS tower_count, MAX(created_at) AS created_at
		FROM tower_anomaly_scores
		GROUP BY model_version, run_id
		ORDER BY model_version DESC, run_id DESC
	`).Scan(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("query model versions: %w", err)
	}
	return versions, nil
}

// Stats aggregates scores for one model version. Empty versions yield the
// documented defaults: zeros, except max_score which defaults to 1.
func (s *AnomalyService) Stats(ctx context.Context, modelVersion string) (*models.AnomalyScoreStats, error) {
	stats := models.AnomalyScoreStats{ModelVersion: modelVersion}

	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_scored,
			COALESCE(AVG(anomaly_score), 0) AS mean_score,
			COALESCE(STDDEV(anomaly_score), 0) AS std_score,
			COALESCE(MIN(anomaly_score), 0) AS min_score,
			COALESCE(MAX(anomaly_score), 1) AS max_score,
			COUNT(*) FILTER (WHERE percentile > 95) AS above_95th_percentile,
			COUNT(*) FILTER (WHERE percentile > 99) AS above_99th_percentile
		FROM tower_anomaly_scores
		WHERE model_version = ?
	`, modelVersion).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("query anomaly stats: %w", err)
	}

	// Representative run_id for display, from any single row.
	if stats.TotalScored > 0 {
		var row models.TowerAnomalyScore
		err := s.db.WithContext(ctx).
			Where("model_version = ?", modelVersion).
			Limit(1).
			Take(&row).Error
		if err == nil {
			stats.RunID = row.RunID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query representative run: %w", err)
		}
	}

	return &stats, nil
}

// Histogram buckets all scores for a version into `buckets` equal-width
// buckets over [0,1]. An unknown version yields an empty slice, not an error.
func (s *AnomalyService) Histogram(ctx context.Context, modelVersion string, buckets int) ([]models.ScoreBucket, error) {
	var scores []float64
	err := s.db.WithContext(ctx).
		Model(&models.TowerAnomalyScore{}).
		Where("model_version = ?", modelVersion).
		Pluck("anomaly_score", &scores).Error
	if err != nil {
		return nil, fmt.Errorf("query scores for histogram: %w", err)
	}
	return BucketScores(scores, buckets), nil
}

const towerScoreSelect = `
	tower_anomaly_scores.tower_id,
	towers.latitude,
	towers.longitude,
	towers.tower_type,
	towers.provider_count,
	tower_anomaly_scores.anomaly_score,
	tower_anomaly_scores.percentile,
	tower_anomaly_scores.link_pred_error,
	tower_anomaly_scores.neighbor_inconsistency`

// rankedQuery is the shared core of TopAnomalies and InBounds: scores joined
// with tower display attributes, percentile-gated, highest scores first with
// tower_id as the deterministic tie-break.
func (s *AnomalyService) rankedQuery(ctx context.Context, modelVersion string, minPercentile float64, limit int) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("tower_anomaly_scores").
		Select(towerScoreSelect).
		Joins("JOIN towers ON towers.id = tower_anomaly_scores.tower_id").
		Where("tower_anomaly_scores.model_version = ?", modelVersion).
		Where("tower_anomaly_scores.percentile >= ?", minPercentile).
		Order("tower_anomaly_scores.anomaly_score DESC, tower_anomaly_scores.tower_id ASC").
		Limit(limit)
}

// TopAnomalies returns up to limit towers with the highest anomaly scores at
// or above minPercentile.
func (s *AnomalyService) TopAnomalies(ctx context.Context, modelVersion string, limit int, minPercentile float64) ([]models.TowerWithScore, error) {
	rows := []models.TowerWithScore{}
	err := s.rankedQuery(ctx, modelVersion, minPercentile, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query top anomalies: %w", err)
	}
	return rows, nil
}

// InBounds returns ranked scores for towers inside the closed rectangle.
// This is a range filter over coordinates, not a proximity search.
func (s *AnomalyService) InBounds(ctx context.Context, modelVersion string, b Bounds, minPercentile float64, limit int) ([]models.TowerWithScore, error) {
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return nil, ErrInvalidBounds
	}

	rows := []models.TowerWithScore{}
	err := s.rankedQuery(ctx, modelVersion, minPercentile, limit).
		Where("towers.latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
		Where("towers.longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query anomalies in bounds: %w", err)
	}
	return rows, nil
}

// TowerScore returns the stored score for one tower under a model version,
// or ErrScoreNotFound.
func (s *AnomalyService) TowerScore(ctx context.Context, towerID int, modelVersion string) (*models.TowerAnomalyScore, error) {
	var score models.TowerAnomalyScore
	err := s.db.WithContext(ctx).
		Where("tower_id = ? AND model_version = ?", towerID, modelVersion).
		Take(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query tower score: %w", err)
	}
	return &score, nil
}

// Metrics combines stats, a 20-bucket distribution, and the top anomalies
// into the single dashboard payload.
func (s *AnomalyService) Metrics(ctx context.Context, modelVersion string, topN int) (*models.AnomalyMetrics, error) {
	stats, err := s.Stats(ctx, modelVersion)
	if err != nil {
		return nil, err
	}
	distribution, err := s.Histogram(ctx, modelVersion, 20)
	if err != nil {
		return nil, err
	}
	top, err := s.TopAnomalies(ctx, modelVersion, topN, 95.0)
	if err != nil {
		return nil, err
	}
	return &models.AnomalyMetrics{
		Stats:        *stats,
		Distribution: distribution,
		TopAnomalies: top,
	}, nil
}
