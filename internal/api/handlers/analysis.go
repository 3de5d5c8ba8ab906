package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vpd-analysis/internal/api/models"
	"vpd-analysis/internal/config"
	"vpd-analysis/internal/cropconfig"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/recommend"
	"vpd-analysis/internal/stats"
	"vpd-analysis/internal/timeclass"
)

// AnalysisHandler runs the statistics + recommendation pipeline over a
// referenced dataset and serves stored results back by id.
type AnalysisHandler struct {
	cfg    *config.Config
	cache  *data.Cache
	store  *cropconfig.Store
	bands  *model.BandTable
	engine *recommend.Engine
}

// NewAnalysisHandler wires the handler. cache may be nil (no caching).
func NewAnalysisHandler(cfg *config.Config, cache *data.Cache, store *cropconfig.Store, bands *model.BandTable, engine *recommend.Engine) *AnalysisHandler {
	return &AnalysisHandler{cfg: cfg, cache: cache, store: store, bands: bands, engine: engine}
}

// RunAnalysis handles POST /api/v1/analysis.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	ds, err := h.loadDataset(req.Dataset)
	if err != nil {
		badRequest(c, "DATASET_LOAD_ERROR", err.Error())
		return
	}

	sector := req.Sector
	if sector == "" {
		sector = ds.Metadata.Sector
	}
	if sector == "" {
		sector = "Default"
	}

	filter, err := h.buildFilter(req.Filters)
	if err != nil {
		badRequest(c, "INVALID_FILTER", err.Error())
		return
	}

	bandFor := func(islandID string) model.VPDBand {
		a, _ := h.store.Get(sector, islandID)
		return h.bands.Band(a.CropType, a.GrowthWeek)
	}

	// The computed report is cached by dataset + filter signature; config
	// writes invalidate the whole cache so band changes take effect.
	sig := data.FilterSignature(string(filter.Period), req.Filters.Block, req.Filters.Islands,
		string(filter.Classifier.Convention()))
	reportKey := data.DatasetKey("report", req.Dataset.Type, req.Dataset.File,
		req.Dataset.Sector, req.Dataset.Date, sector, sig)

	var report map[string]stats.IslandStatistics
	if v, ok := h.cache.Get(reportKey); ok {
		report, _ = v.(map[string]stats.IslandStatistics)
	}
	if report == nil {
		report = stats.Compute(ds.Data, ds.IslandIDs(), filter, bandFor)
		h.cache.Set(reportKey, report)
	}

	resp := models.AnalysisResponse{
		ID:         uuid.NewString(),
		Status:     "completed",
		Metadata:   ds.Metadata,
		Sector:     sector,
		Convention: string(filter.Classifier.Convention()),
	}

	ordered := make([]string, 0, len(report))
	for id := range report {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	for _, id := range ordered {
		st := report[id]
		assignment, _ := h.store.Get(sector, id)
		ia := models.IslandAnalysis{
			IslandID:   id,
			Assignment: assignment,
			Statistics: st,
		}
		if rec, err := h.engine.EvaluateStats(st); err == nil {
			ia.Recommendation = &rec
		} else if !errors.Is(err, recommend.ErrNoData) {
			log.Printf("AnalysisHandler: recommend %s: %v", id, err)
		}
		resp.Islands = append(resp.Islands, ia)
	}

	if req.Options.IncludeThermal {
		island := req.Options.ThermalIsland
		if island == "" && len(ordered) > 0 {
			island = ordered[0]
		}
		if island != "" {
			thermal := stats.ComputeThermal(ds.Data, island, filter, req.Options.IncludePoints)
			resp.Thermal = &thermal
		}
	}

	h.cache.Set("analysis:"+resp.ID, &resp)
	c.JSON(http.StatusOK, resp)
}

// GetAnalysis handles GET /api/v1/analysis/:id, replaying a stored result
// while it remains in the cache.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id := c.Param("id")
	v, ok := h.cache.Get("analysis:" + id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ANALYSIS_NOT_FOUND",
				Message: fmt.Sprintf("no stored analysis %q (results expire after %s)", id, h.cfg.CacheTTL),
			},
		})
		return
	}
	resp, ok := v.(*models.AnalysisResponse)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "ANALYSIS_NOT_FOUND", Message: "stored entry is not an analysis result"},
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// loadDataset resolves and loads the referenced dataset, with caching keyed
// by the dataset signature.
func (h *AnalysisHandler) loadDataset(ref models.DatasetRef) (*model.DayDataset, error) {
	path := ref.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.cfg.DataDir, path)
	}

	key := data.DatasetKey("dataset", ref.Type, path, ref.Sector, ref.Date)
	if v, ok := h.cache.Get(key); ok {
		if ds, ok := v.(*model.DayDataset); ok {
			return ds, nil
		}
	}

	var ds *model.DayDataset
	var err error
	switch ref.Type {
	case "json":
		ds, err = data.LoadDayJSON(path)
	case "excel":
		if ref.Sector == "" {
			return nil, errors.New("excel dataset requires a sector")
		}
		ds, err = data.LoadDayExcel(path, ref.Sector, ref.Date)
	default:
		return nil, fmt.Errorf("unsupported dataset type %q", ref.Type)
	}
	if err != nil {
		return nil, err
	}

	h.cache.Set(key, ds)
	return ds, nil
}

func (h *AnalysisHandler) buildFilter(f models.FilterOptions) (stats.Filter, error) {
	period, err := timeclass.ParsePeriod(f.Period)
	if err != nil {
		return stats.Filter{}, err
	}

	convention := f.Convention
	if convention == "" {
		convention = h.cfg.DayNightConvention
	}
	classifier, err := timeclass.New(timeclass.Convention(convention))
	if err != nil {
		return stats.Filter{}, err
	}

	filter := stats.Filter{
		Period:     period,
		Islands:    f.Islands,
		Classifier: classifier,
	}
	if f.Block != "" {
		block, err := timeclass.ParseBlock(f.Block)
		if err != nil {
			return stats.Filter{}, err
		}
		filter.Block = &block
	}
	return filter, nil
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
