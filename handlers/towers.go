package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tower-anomaly-api/models"
)

type TowersHandler struct {
	db *gorm.DB
}

func NewTowersHandler(db *gorm.DB) *TowersHandler {
	return &TowersHandler{db: db}
}

// GetTowers lists towers with limit/offset pagination and optional equality
// filters, combined with AND. Each filter binds its own parameter.
func (h *TowersHandler) GetTowers(c *gin.Context) {
	p := ParsePagination(c)

	query := h.db.Model(&models.Tower{}).Order("id ASC").Limit(p.Limit).Offset(p.Offset)
	if rat := c.Query("rat"); rat != "" {
		query = query.Where("rat = ?", rat)
	}
	if towerType := c.Query("tower_type"); towerType != "" {
		query = query.Where("tower_type = ?", towerType)
	}
	if visible := c.Query("visible"); visible != "" {
		v, err := strconv.ParseBool(visible)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visible: must be a boolean"})
			return
		}
		query = query.Where("visible = ?", v)
	}

	var towers []models.Tower
	if err := query.Find(&towers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": towers})
}

func (h *TowersHandler) GetTower(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower id"})
		return
	}

	var tower models.Tower
	if err := h.db.First(&tower, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tower not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, tower)
}

func (h *TowersHandler) CreateTower(c *gin.Context) {
	var tower models.Tower
	if err := c.ShouldBindJSON(&tower); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if tower.Latitude < -90 || tower.Latitude > 90 || tower.Longitude < -180 || tower.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	if err := h.db.Create(&tower).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tower"})
		return
	}
	c.JSON(http.StatusCreated, tower)
}

func (h *TowersHandler) UpdateTower(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower id"})
		return
	}

	var tower models.Tower
	if err := h.db.First(&tower, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tower not found"})
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

	if err := h.db.Model(&tower).Updates(changes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tower"})
		return
	}
	c.JSON(http.StatusOK, tower)
}

func (h *TowersHandler) DeleteTower(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower id"})
		return
	}

	result := h.db.Delete(&models.Tower{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete tower"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "tower not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
