package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tower-anomaly-api/models"
)

type CellsHandler struct {
	db *gorm.DB
}

func NewCellsHandler(db *gorm.DB) *CellsHandler {
	return &CellsHandler{db: db}
}

func (h *CellsHandler) GetCells(c *gin.Context) {
	p := ParsePagination(c)

	query := h.db.Model(&models.Cell{}).Order("id ASC").Limit(p.Limit).Offset(p.Offset)
	if towerID := c.Query("tower_id"); towerID != "" {
		id, err := strconv.Atoi(towerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tower_id"})
			return
		}
		query = query.Where("tower_id = ?", id)
	}
	if subsystem := c.Query("subsystem"); subsystem != "" {
		query = query.Where("subsystem = ?", subsystem)
	}

	var cells []models.Cell
	if err := query.Find(&cells).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cells})
}

func (h *CellsHandler) GetCell(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell id"})
		return
	}

	var cell models.Cell
	if err := h.db.First(&cell, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cell not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, cell)
}

func (h *CellsHandler) CreateCell(c *gin.Context) {
	var cell models.Cell
	if err := c.ShouldBindJSON(&cell); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cell.TowerID == 0 || cell.CellID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tower_id and cell_id are required"})
		return
	}

	if err := h.db.Create(&cell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cell"})
		return
	}
	c.JSON(http.StatusCreated, cell)
}

func (h *CellsHandler) UpdateCell(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell id"})
		return
	}

	var cell models.Cell
	if err := h.db.First(&cell, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cell not found"})
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

	if err := h.db.Model(&cell).Updates(changes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cell"})
		return
	}
	c.JSON(http.StatusOK, cell)
}

func (h *CellsHandler) DeleteCell(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cell id"})
		return
	}

	result := h.db.Delete(&models.Cell{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cell"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "cell not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
