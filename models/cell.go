package models

import "time"

type Cell struct {
	ID            int        `gorm:"column:id;primaryKey" json:"id"`
	TowerID       int        `gorm:"column:tower_id" json:"tower_id"`
	CellID        string     `gorm:"column:cell_id" json:"cell_id"`
	PCI           *int       `gorm:"column:pci" json:"pci"`
	Sector        *int       `gorm:"column:sector" json:"sector"`
	Bandwidth     *int       `gorm:"column:bandwidth" json:"bandwidth"`
	Signal        *int       `gorm:"column:signal" json:"signal"`
	Subsystem     *string    `gorm:"column:subsystem" json:"subsystem"`
	EndcAvailable bool       `gorm:"column:endc_available" json:"endc_available"`
	FirstSeenAt   *time.Time `gorm:"column:first_seen_at" json:"first_seen_at"`
	LastSeenAt    *time.Time `gorm:"column:last_seen_at" json:"last_seen_at"`
}

func (Cell) TableName() string { return "cells" }

type TowerBand struct {
	ID         int     `gorm:"column:id;primaryKey" json:"id"`
	TowerID    int     `gorm:"column:tower_id" json:"tower_id"`
	BandNumber int     `gorm:"column:band_number" json:"band_number"`
	BandName   *string `gorm:"column:band_name" json:"band_name"`
	Channel    *int    `gorm:"column:channel" json:"channel"`
	Bandwidth  *int    `gorm:"column:bandwidth" json:"bandwidth"`
	Modulation *string `gorm:"column:modulation" json:"modulation"`
}

func (TowerBand) TableName() string { return "tower_bands" }
