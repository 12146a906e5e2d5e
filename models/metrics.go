package models

import "time"

type ModelVersionInfo struct {
	ModelVersion string     `json:"model_version"`
	RunID        *string    `json:"run_id"`
	TowerCount   int        `json:"tower_count"`
	CreatedAt    *time.Time `json:"created_at"`
}

type AnomalyScoreStats struct {
	TotalScored         int     `gorm:"column:total_scored" json:"total_scored"`
	MeanScore           float64 `gorm:"column:mean_score" json:"mean_score"`
	StdScore            float64 `gorm:"column:std_score" json:"std_score"`
	MinScore            float64 `gorm:"column:min_score" json:"min_score"`
	MaxScore            float64 `gorm:"column:max_score" json:"max_score"`
	Above95thPercentile int     `gorm:"column:above_95th_percentile" json:"above_95th_percentile"`
	Above99thPercentile int     `gorm:"column:above_99th_percentile" json:"above_99th_percentile"`
	ModelVersion        string  `gorm:"-" json:"model_version"`
	RunID               *string `gorm:"-" json:"run_id"`
}

// ScoreBucket is one histogram bucket over [0,1]. Buckets are half-open
// [start, end) except the last, which also contains 1.0.
type ScoreBucket struct {
	BucketStart float64 `json:"bucket_start"`
	BucketEnd   float64 `json:"bucket_end"`
	Count       int     `json:"count"`
}

type AnomalyMetrics struct {
	Stats        AnomalyScoreStats `json:"stats"`
	Distribution []ScoreBucket     `json:"distribution"`
	TopAnomalies []TowerWithScore  `json:"top_anomalies"`
}

type BandDistributionEntry struct {
	BandCount  int `json:"band_count"`
	TowerCount int `json:"tower_count"`
}

type ProviderBandDistribution struct {
	ProviderID    int                     `json:"provider_id"`
	ProviderName  *string                 `json:"provider_name"`
	Distribution  []BandDistributionEntry `json:"distribution"`
	TotalTowers   int                     `json:"total_towers"`
	EndcTowers    int                     `json:"endc_towers"`
	NonEndcTowers int                     `json:"non_endc_towers"`
}

type EndcSummary struct {
	EndcEnabled  int `json:"endc_enabled"`
	EndcDisabled int `json:"endc_disabled"`
}

type BandDistributionMetric struct {
	ByProvider  []ProviderBandDistribution `json:"by_provider"`
	Overall     []BandDistributionEntry    `json:"overall"`
	TotalTowers int                        `json:"total_towers"`
	EndcSummary EndcSummary                `json:"endc_summary"`
}
