package models

// DatasetRef tells the service which day's records to analyze.
// Type "json" reads a precomputed day document; type "excel" reads one
// sector sheet of the workbook, optionally narrowed to a date. File paths
// are resolved inside the configured data directory.
type DatasetRef struct {
	Type   string `json:"type" binding:"required"` // "json" or "excel"
	File   string `json:"file" binding:"required"`
	Sector string `json:"sector,omitempty"` // excel only
	Date   string `json:"date,omitempty"`   // YYYY-MM-DD, excel only
}

// FilterOptions narrows the analyzed records and islands.
type FilterOptions struct {
	Period  string   `json:"period,omitempty"` // "day", "night", "full"
	Block   string   `json:"block,omitempty"`  // one of the five diurnal blocks
	Islands []string `json:"islands,omitempty"`
	// Convention overrides the configured day/night boundary rule:
	// "plant_cycle" or "solar".
	Convention string `json:"convention,omitempty"`
}

// AnalysisOptions toggles optional response content.
type AnalysisOptions struct {
	IncludeThermal bool   `json:"include_thermal,omitempty"`
	ThermalIsland  string `json:"thermal_island,omitempty"`
	IncludePoints  bool   `json:"include_points,omitempty"`
}

// AnalysisRequest is the body of POST /api/v1/analysis.
type AnalysisRequest struct {
	Dataset DatasetRef      `json:"dataset" binding:"required"`
	// Sector selects which stored island configuration applies. Defaults
	// to the dataset's sector (excel) or "Default".
	Sector  string          `json:"sector,omitempty"`
	Filters FilterOptions   `json:"filters,omitempty"`
	Options AnalysisOptions `json:"options,omitempty"`
}

// RecommendRequest is the body of POST /api/v1/recommend: one-shot
// recommendation from current average conditions. VPD is optional; when
// omitted it is computed from temperature and humidity. Temperature and
// humidity are pointers so that required-field validation still accepts a
// legitimate zero reading.
type RecommendRequest struct {
	TemperatureC *float64 `json:"temperature" binding:"required"`
	HumidityPct  *float64 `json:"humidity" binding:"required"`
	VPDKPa       *float64 `json:"vpd,omitempty"`

	CropType string `json:"crop_type" binding:"required"`
	Week     *int   `json:"week" binding:"required"`
}

// ConfigUpdateRequest is the body of PUT /api/v1/config/:sector/:island.
type ConfigUpdateRequest struct {
	CropType string `json:"crop_type" binding:"required"`
	Week     *int   `json:"week" binding:"required"`
}
