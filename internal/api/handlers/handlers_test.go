package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpd-analysis/internal/api/models"
	"vpd-analysis/internal/config"
	"vpd-analysis/internal/cropconfig"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/recommend"
)

const dayDoc = `{
  "metadata": {
    "date": "2025-05-14",
    "sector": "Sector 2",
    "totalRecords": 3,
    "timeInterval": "5 minutes",
    "islands": ["I1", "I2"]
  },
  "data": [
    {"time": "2025-05-14T08:00:00Z", "hour": 8, "minute": 0, "islands": {
      "I1": {"temperature": 22.0, "humidity": 64.0, "vpd": 0.95},
      "I2": {"temperature": 25.0, "humidity": 59.0, "vpd": 1.30}
    }},
    {"time": "2025-05-14T08:05:00Z", "hour": 8, "minute": 5, "islands": {
      "I1": {"temperature": 22.1, "humidity": 63.5, "vpd": 0.97},
      "I2": {"temperature": 25.1, "humidity": 58.5, "vpd": 1.32}
    }},
    {"time": "2025-05-14T19:00:00Z", "hour": 19, "minute": 0, "islands": {
      "I1": {"temperature": 20.0, "humidity": 70.0, "vpd": 0.70}
    }}
  ]
}`

type testEnv struct {
	router *gin.Engine
	cache  *data.Cache
	store  *cropconfig.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "day.json"), []byte(dayDoc), 0o644))

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.ConfigStore = filepath.Join(dir, "island_configs.json")

	cache := data.NewCache(time.Minute)
	store := cropconfig.NewStore(cfg.ConfigStore)
	bands := model.DefaultBandTable()
	engine := recommend.New(cfg.RecommendParams())

	analysisHandler := NewAnalysisHandler(cfg, cache, store, bands, engine)
	recommendHandler := NewRecommendHandler(bands, engine)
	bandsHandler := NewBandsHandler(bands)
	configHandler := NewConfigHandler(store, cache)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/analysis", analysisHandler.RunAnalysis)
	api.GET("/analysis/:id", analysisHandler.GetAnalysis)
	api.POST("/recommend", recommendHandler.Recommend)
	api.GET("/bands", bandsHandler.List)
	api.GET("/config/:sector", configHandler.GetSector)
	api.PUT("/config/:sector/:island", configHandler.SetIsland)
	api.DELETE("/config/:sector", configHandler.ClearSector)

	return &testEnv{router: router, cache: cache, store: store}
}

func fptr(v float64) *float64 { return &v }

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRunAnalysis(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Sector 2", resp.Sector)
	assert.Equal(t, "plant_cycle", resp.Convention)
	require.Len(t, resp.Islands, 2)

	byID := map[string]models.IslandAnalysis{}
	for _, ia := range resp.Islands {
		byID[ia.IslandID] = ia
	}
	assert.Equal(t, 3, byID["I1"].Statistics.VPD.Count)
	assert.Equal(t, 2, byID["I2"].Statistics.VPD.Count)

	// I2 averages ~1.31 kPa against the basil week-2 band: high.
	require.NotNil(t, byID["I2"].Recommendation)
	assert.Equal(t, recommend.StatusHigh, byID["I2"].Recommendation.Status)
}

func TestRunAnalysisFilters(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
		Filters: models.FilterOptions{Block: "morning", Islands: []string{"I1"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Islands, 1)
	assert.Equal(t, "I1", resp.Islands[0].IslandID)
	// The 19:00 record falls outside the morning block.
	assert.Equal(t, 2, resp.Islands[0].Statistics.VPD.Count)
}

func TestRunAnalysisIslandWithoutSamplesHasNoRecommendation(t *testing.T) {
	env := newTestEnv(t)

	// The night_plant block only contains the 19:00 record, which carries I1
	// but not I2.
	w := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
		Filters: models.FilterOptions{Block: "night_plant"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, ia := range resp.Islands {
		if ia.IslandID == "I2" {
			assert.Equal(t, 0, ia.Statistics.VPD.Count)
			assert.Nil(t, ia.Recommendation, "island without samples must not get a recommendation")
		}
	}
}

func TestRunAnalysisBadRequests(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  models.AnalysisRequest
		code string
	}{
		{"missing file", models.AnalysisRequest{Dataset: models.DatasetRef{Type: "json", File: "nope.json"}}, "DATASET_LOAD_ERROR"},
		{"bad type", models.AnalysisRequest{Dataset: models.DatasetRef{Type: "csv", File: "day.json"}}, "DATASET_LOAD_ERROR"},
		{"bad block", models.AnalysisRequest{
			Dataset: models.DatasetRef{Type: "json", File: "day.json"},
			Filters: models.FilterOptions{Block: "noon"},
		}, "INVALID_FILTER"},
		{"bad convention", models.AnalysisRequest{
			Dataset: models.DatasetRef{Type: "json", File: "day.json"},
			Filters: models.FilterOptions{Convention: "lunar"},
		}, "INVALID_FILTER"},
	}
	for _, c := range cases {
		w := env.do(t, http.MethodPost, "/api/v1/analysis", c.req)
		assert.Equal(t, http.StatusBadRequest, w.Code, c.name)

		var er models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er), c.name)
		assert.Equal(t, c.code, er.Error.Code, c.name)
	}
}

func TestGetAnalysisReplay(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w2 := env.do(t, http.MethodGet, "/api/v1/analysis/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	var replay models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &replay))
	assert.Equal(t, resp.ID, replay.ID)
	assert.Len(t, replay.Islands, 2)

	w3 := env.do(t, http.MethodGet, "/api/v1/analysis/unknown-id", nil)
	assert.Equal(t, http.StatusNotFound, w3.Code)

	env.cache.Invalidate()
	w4 := env.do(t, http.MethodGet, "/api/v1/analysis/"+resp.ID, nil)
	assert.Equal(t, http.StatusNotFound, w4.Code, "expired results are gone")
}

func TestRecommendEndpoint(t *testing.T) {
	env := newTestEnv(t)
	week := 3

	w := env.do(t, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{
		TemperatureC: fptr(28), HumidityPct: fptr(40), CropType: "basil", Week: &week,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, recommend.StatusHigh, resp.Recommendation.Status)
	assert.InDelta(t, 2.27, resp.Input.VPDKPa, 0.01, "VPD computed when not supplied")
	assert.NotEqual(t, recommend.ActionMaintain, resp.Recommendation.RecommendedAction)
}

func TestRecommendTrustsSubmittedVPD(t *testing.T) {
	env := newTestEnv(t)
	week := 3
	vpd := 0.95 // inside basil week-3 optimal despite the dry readings

	w := env.do(t, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{
		TemperatureC: fptr(28), HumidityPct: fptr(40), VPDKPa: &vpd, CropType: "basil", Week: &week,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, recommend.StatusOptimal, resp.Recommendation.Status)
}

func TestRecommendAcceptsZeroReadings(t *testing.T) {
	env := newTestEnv(t)
	week := 0

	// 0°C / 0% RH are legitimate readings, not missing fields. VPD is then
	// the full saturation pressure at 0°C, inside the week-0 band.
	w := env.do(t, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{
		TemperatureC: fptr(0), HumidityPct: fptr(0), CropType: "mixed", Week: &week,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.6108, resp.Input.VPDKPa, 0.001)
	assert.Equal(t, recommend.StatusOptimal, resp.Recommendation.Status)

	// Actually missing fields are still rejected.
	w2 := env.do(t, http.MethodPost, "/api/v1/recommend", map[string]any{
		"humidity": 60, "crop_type": "mixed", "week": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestRecommendRejectsBadAssignment(t *testing.T) {
	env := newTestEnv(t)
	week := 7

	w := env.do(t, http.MethodPost, "/api/v1/recommend", models.RecommendRequest{
		TemperatureC: fptr(22), HumidityPct: fptr(60), CropType: "basil", Week: &week,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBandsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/bands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bands []models.BandInfo `json:"bands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Bands, 12, "3 crops x 4 weeks")

	w2 := env.do(t, http.MethodGet, "/api/v1/bands?crop=lettuce", nil)
	require.Equal(t, http.StatusOK, w2.Code)
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.Len(t, resp.Bands, 4)

	w3 := env.do(t, http.MethodGet, "/api/v1/bands?crop=tomato", nil)
	assert.Equal(t, http.StatusBadRequest, w3.Code)
}

func TestConfigLifecycle(t *testing.T) {
	env := newTestEnv(t)
	week := 1

	// Defaults before any write.
	w := env.do(t, http.MethodGet, "/api/v1/config/Sector%202", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cfgResp models.SectorConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfgResp))
	assert.Len(t, cfgResp.Islands, 6)
	assert.Equal(t, model.CropBasil, cfgResp.Islands["I1"].CropType)

	// Override one island.
	w2 := env.do(t, http.MethodPut, "/api/v1/config/Sector%202/I1", models.ConfigUpdateRequest{
		CropType: "lettuce", Week: &week,
	})
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())

	w3 := env.do(t, http.MethodGet, "/api/v1/config/Sector%202", nil)
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &cfgResp))
	assert.Equal(t, model.CropLettuce, cfgResp.Islands["I1"].CropType)
	assert.Equal(t, 1, cfgResp.Islands["I1"].GrowthWeek)

	// Invalid update is rejected.
	badWeek := 9
	w4 := env.do(t, http.MethodPut, "/api/v1/config/Sector%202/I1", models.ConfigUpdateRequest{
		CropType: "lettuce", Week: &badWeek,
	})
	assert.Equal(t, http.StatusBadRequest, w4.Code)

	// Clear returns the sector to defaults.
	w5 := env.do(t, http.MethodDelete, "/api/v1/config/Sector%202", nil)
	require.Equal(t, http.StatusOK, w5.Code)

	w6 := env.do(t, http.MethodGet, "/api/v1/config/Sector%202", nil)
	require.NoError(t, json.Unmarshal(w6.Body.Bytes(), &cfgResp))
	assert.Equal(t, model.CropBasil, cfgResp.Islands["I1"].CropType)
}

func TestAnalysisUsesStoredConfig(t *testing.T) {
	env := newTestEnv(t)
	week := 0

	// Mark I2 unplanted: its wide week-0 band should turn the ~1.31 kPa
	// average from high into optimal.
	w := env.do(t, http.MethodPut, "/api/v1/config/Sector%202/I2", models.ConfigUpdateRequest{
		CropType: "mixed", Week: &week,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w2 := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
	})
	require.Equal(t, http.StatusOK, w2.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	for _, ia := range resp.Islands {
		if ia.IslandID == "I2" {
			require.NotNil(t, ia.Recommendation)
			assert.Equal(t, recommend.StatusOptimal, ia.Recommendation.Status)
			assert.Equal(t, 0, ia.Assignment.GrowthWeek)
		}
	}
}

func TestAnalysisIncludesThermal(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/analysis", models.AnalysisRequest{
		Dataset: models.DatasetRef{Type: "json", File: "day.json"},
		Options: models.AnalysisOptions{IncludeThermal: true, ThermalIsland: "I1", IncludePoints: true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Thermal)
	assert.Equal(t, "I1", resp.Thermal.IslandID)
	assert.Equal(t, 3, resp.Thermal.Temperature.Count)
	assert.Len(t, resp.Thermal.Points, 3)
}
