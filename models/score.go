package models

import "time"

// TowerAnomalyScore is one stored score row. At most one row exists per
// (tower_id, model_version); re-imports replace the whole batch for a version.
type TowerAnomalyScore struct {
	ID                    int       `gorm:"column:id;primaryKey" json:"id"`
	TowerID               int       `gorm:"column:tower_id" json:"tower_id"`
	ModelVersion          string    `gorm:"column:model_version" json:"model_version"`
	RunID                 *string   `gorm:"column:run_id" json:"run_id"`
	AnomalyScore          float64   `gorm:"column:anomaly_score" json:"anomaly_score"`
	LinkPredError         *float64  `gorm:"column:link_pred_error" json:"link_pred_error"`
	NeighborInconsistency *float64  `gorm:"column:neighbor_inconsistency" json:"neighbor_inconsistency"`
	Percentile            float64   `gorm:"column:percentile" json:"percentile"`
	CreatedAt             time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TowerAnomalyScore) TableName() string { return "tower_anomaly_scores" }

// TowerWithScore is the denormalized read model served by the top/in-bounds
// rankings: score fields joined with the tower's display attributes.
type TowerWithScore struct {
	TowerID               int      `json:"tower_id"`
	Latitude              float64  `json:"latitude"`
	Longitude             float64  `json:"longitude"`
	TowerType             *string  `json:"tower_type"`
	ProviderCount         int      `json:"provider_count"`
	AnomalyScore          float64  `json:"anomaly_score"`
	Percentile            float64  `json:"percentile"`
	LinkPredError         *float64 `json:"link_pred_error"`
	NeighborInconsistency *float64 `json:"neighbor_inconsistency"`
}
