package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"vpd-analysis/internal/config"
	"vpd-analysis/internal/data"
)

// SectorsHandler exposes workbook discovery: which sectors exist and which
// dates each one covers.
type SectorsHandler struct {
	cfg   *config.Config
	cache *data.Cache
}

func NewSectorsHandler(cfg *config.Config, cache *data.Cache) *SectorsHandler {
	return &SectorsHandler{cfg: cfg, cache: cache}
}

func (h *SectorsHandler) workbookPath() string {
	if filepath.IsAbs(h.cfg.Workbook) {
		return h.cfg.Workbook
	}
	return filepath.Join(h.cfg.DataDir, h.cfg.Workbook)
}

// List handles GET /api/v1/sectors.
func (h *SectorsHandler) List(c *gin.Context) {
	path := h.workbookPath()
	key := data.DatasetKey("sectors", path)
	if v, ok := h.cache.Get(key); ok {
		if sectors, ok := v.([]string); ok {
			c.JSON(http.StatusOK, gin.H{"workbook": path, "sectors": sectors})
			return
		}
	}

	sectors, err := data.WorkbookSectors(path)
	if err != nil {
		badRequest(c, "WORKBOOK_ERROR", err.Error())
		return
	}
	h.cache.Set(key, sectors)
	c.JSON(http.StatusOK, gin.H{"workbook": path, "sectors": sectors})
}

// Dates handles GET /api/v1/sectors/:sector/dates.
func (h *SectorsHandler) Dates(c *gin.Context) {
	sector := c.Param("sector")
	path := h.workbookPath()

	key := data.DatasetKey("sector-dates", path, sector)
	if v, ok := h.cache.Get(key); ok {
		if dates, ok := v.([]string); ok {
			c.JSON(http.StatusOK, gin.H{"sector": sector, "dates": dates})
			return
		}
	}

	dates, err := data.SectorDates(path, sector)
	if err != nil {
		badRequest(c, "WORKBOOK_ERROR", err.Error())
		return
	}
	h.cache.Set(key, dates)
	c.JSON(http.StatusOK, gin.H{"sector": sector, "dates": dates})
}
