package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpd-analysis/internal/api/models"
	"vpd-analysis/internal/cropconfig"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
)

// ConfigHandler manages per-sector island crop/week assignments. Writes
// invalidate the analysis cache so cached reports never outlive a band
// change.
type ConfigHandler struct {
	store *cropconfig.Store
	cache *data.Cache
}

func NewConfigHandler(store *cropconfig.Store, cache *data.Cache) *ConfigHandler {
	return &ConfigHandler{store: store, cache: cache}
}

// GetSector handles GET /api/v1/config/:sector, returning the effective
// assignments (defaults overlaid with stored values).
func (h *ConfigHandler) GetSector(c *gin.Context) {
	sector := c.Param("sector")
	c.JSON(http.StatusOK, models.SectorConfigResponse{
		Sector:  sector,
		Islands: h.store.Sector(sector),
	})
}

// SetIsland handles PUT /api/v1/config/:sector/:island.
func (h *ConfigHandler) SetIsland(c *gin.Context) {
	var req models.ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	sector := c.Param("sector")
	island := c.Param("island")
	assignment := model.IslandAssignment{
		CropType:   model.CropType(req.CropType),
		GrowthWeek: *req.Week,
	}
	if err := h.store.Set(sector, island, assignment); err != nil {
		badRequest(c, "INVALID_ASSIGNMENT", err.Error())
		return
	}
	h.cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{
		"sector":     sector,
		"island":     island,
		"assignment": assignment,
	})
}

// ClearSector handles DELETE /api/v1/config/:sector, returning the sector to
// defaults.
func (h *ConfigHandler) ClearSector(c *gin.Context) {
	sector := c.Param("sector")
	if err := h.store.Clear(sector); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "STORE_ERROR", Message: err.Error()},
		})
		return
	}
	h.cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"sector": sector, "cleared": true})
}
