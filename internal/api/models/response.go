package models

import (
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/recommend"
	"vpd-analysis/internal/stats"
)

// ErrorDetail carries a machine-readable code plus a human message.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// IslandAnalysis bundles everything the dashboard shows for one island.
// Recommendation is nil when the island had no samples in the filtered
// subset; clients must not treat that as "optimal".
type IslandAnalysis struct {
	IslandID       string                    `json:"island"`
	Assignment     model.IslandAssignment    `json:"assignment"`
	Statistics     stats.IslandStatistics    `json:"statistics"`
	Recommendation *recommend.Recommendation `json:"recommendation,omitempty"`
}

// AnalysisResponse is the result of POST /api/v1/analysis. ID can be used
// with GET /api/v1/analysis/:id while the result stays cached.
type AnalysisResponse struct {
	ID         string                `json:"id"`
	Status     string                `json:"status"`
	Metadata   model.DatasetMetadata `json:"metadata"`
	Sector     string                `json:"sector"`
	Convention string                `json:"convention"`

	Islands []IslandAnalysis      `json:"islands"`
	Thermal *stats.ThermalSummary `json:"thermal,omitempty"`
}

// RecommendResponse is the result of POST /api/v1/recommend.
type RecommendResponse struct {
	Input          recommend.Conditions     `json:"input"`
	Recommendation recommend.Recommendation `json:"recommendation"`
}

// BandInfo is one row of the GET /api/v1/bands table.
type BandInfo struct {
	CropType string        `json:"crop_type"`
	Week     int           `json:"week"`
	Band     model.VPDBand `json:"band"`
}

// SectorConfigResponse is the effective configuration of one sector.
type SectorConfigResponse struct {
	Sector  string                            `json:"sector"`
	Islands map[string]model.IslandAssignment `json:"islands"`
}
