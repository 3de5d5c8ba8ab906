package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpd-analysis/internal/api/models"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/psychro"
	"vpd-analysis/internal/recommend"
)

// RecommendHandler serves one-shot recommendations from submitted conditions.
type RecommendHandler struct {
	bands  *model.BandTable
	engine *recommend.Engine
}

func NewRecommendHandler(bands *model.BandTable, engine *recommend.Engine) *RecommendHandler {
	return &RecommendHandler{bands: bands, engine: engine}
}

// Recommend handles POST /api/v1/recommend. The submitted VPD, when present,
// is trusted over recomputation from temperature and humidity.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	assignment := model.IslandAssignment{
		CropType:   model.CropType(req.CropType),
		GrowthWeek: *req.Week,
	}
	if err := assignment.Validate(); err != nil {
		badRequest(c, "INVALID_ASSIGNMENT", err.Error())
		return
	}

	cur := recommend.Conditions{
		TemperatureC: *req.TemperatureC,
		HumidityPct:  *req.HumidityPct,
	}
	if req.VPDKPa != nil {
		cur.VPDKPa = *req.VPDKPa
	} else {
		cur.VPDKPa = psychro.VPD(cur.TemperatureC, cur.HumidityPct)
	}

	band := h.bands.Band(assignment.CropType, assignment.GrowthWeek)
	c.JSON(http.StatusOK, models.RecommendResponse{
		Input:          cur,
		Recommendation: h.engine.Evaluate(cur, band),
	})
}
