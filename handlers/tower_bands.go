package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tower-anomaly-api/models"
)

type TowerBandsHandler struct {
	db *gorm.DB
}

func NewTowerBandsHandler(db *gorm.DB) *TowerBandsHandler {
	return &TowerBandsHandler{db: db}
}

func (h *TowerBandsHandler) GetTowerBands(c *gin.Context) {
	p := ParsePagination(c)

	query := h.db.Model(&models.TowerBand{}).Order("id ASC").Limit(p.Limit).Offset(p.Offset)
	if towerID := c.Query("tower_id"); towerID != "" {
		id, err := strconv.Atoi(towerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower_id"})
			return
		}
		query = query.Where("tower_id = ?", id)
	}
	if bandNumber := c.Query("band_number"); bandNumber != "" {
		n, err := strconv.Atoi(bandNumber)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid band_number"})
			return
		}
		query = query.Where("band_number = ?", n)
	}

	var bands []models.TowerBand
	if err := query.Find(&bands).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bands})
}

func (h *TowerBandsHandler) GetTowerBand(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower band id"})
		return
	}

	var band models.TowerBand
	if err := h.db.First(&band, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tower band not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, band)
}

func (h *TowerBandsHandler) CreateTowerBand(c *gin.Context) {
	var band models.TowerBand
	if err := c.ShouldBindJSON(&band); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if band.TowerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tower_id is required"})
		return
	}

	if err := h.db.Create(&band).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tower band"})
		return
	}
	c.JSON(http.StatusCreated, band)
}

func (h *TowerBandsHandler) UpdateTowerBand(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower band id"})
		return
	}

	var band models.TowerBand
	if err := h.db.First(&band, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tower band not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	delete(changes, "id")

	if err := h.db.Model(&band).Updates(changes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tower band"})
		return
	}
	c.JSON(http.StatusOK, band)
}

func (h *TowerBandsHandler) DeleteTowerBand(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower band id"})
		return
	}

	result := h.db.Delete(&models.TowerBand{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete tower band"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "tower band not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
