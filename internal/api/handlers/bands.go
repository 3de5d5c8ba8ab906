package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpd-analysis/internal/api/models"
	"vpd-analysis/internal/model"
)

// BandsHandler exposes the crop/week target-band table.
type BandsHandler struct {
	bands *model.BandTable
}

func NewBandsHandler(bands *model.BandTable) *BandsHandler {
	return &BandsHandler{bands: bands}
}

// List handles GET /api/v1/bands, optionally narrowed by ?crop=.
func (h *BandsHandler) List(c *gin.Context) {
	crops := model.CropTypes
	if q := c.Query("crop"); q != "" {
		crop := model.CropType(q)
		found := false
		for _, known := range model.CropTypes {
			if crop == known {
				found = true
				break
			}
		}
		if !found {
			badRequest(c, "UNKNOWN_CROP", "unknown crop type "+q)
			return
		}
		crops = []model.CropType{crop}
	}

	out := make([]models.BandInfo, 0, len(crops)*(model.MaxGrowthWeek+1))
	for _, crop := range crops {
		for week := model.MinGrowthWeek; week <= model.MaxGrowthWeek; week++ {
			out = append(out, models.BandInfo{
				CropType: string(crop),
				Week:     week,
				Band:     h.bands.Band(crop, week),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"bands": out})
}
