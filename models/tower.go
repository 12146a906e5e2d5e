package models

import "time"

type Tower struct {
	ID            int       `gorm:"column:id;primaryKey" json:"id"`
	ExternalID    *string   `gorm:"column:external_id" json:"external_id"`
	RAT           *string   `gorm:"column:rat" json:"rat"`
	TowerType     *string   `gorm:"column:tower_type" json:"tower_type"`
	Latitude      float64   `gorm:"column:latitude" json:"latitude"`
	Longitude     float64   `gorm:"column:longitude" json:"longitude"`
	ProviderCount int       `gorm:"column:provider_count;default:1" json:"provider_count"`
	EndcAvailable bool      `gorm:"column:endc_available" json:"endc_available"`
	Visible       bool      `gorm:"column:visible;default:true" json:"visible"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Tower) TableName() string { return "towers" }

type TowerProvider struct {
	ID            int  `gorm:"column:id;primaryKey" json:"id"`
	TowerID       int  `gorm:"column:tower_id" json:"tower_id"`
	ProviderID    int  `gorm:"column:provider_id" json:"provider_id"`
	EndcAvailable bool `gorm:"column:endc_available" json:"endc_available"`
}

func (TowerProvider) TableName() string { return "tower_providers" }
