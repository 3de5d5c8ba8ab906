package model

import (
	"time"

	"vpd-analysis/internal/psychro"
)

// IslandSample is one island's environmental reading at one timestamp.
//
// VPDKPa is a pointer because imported datasets may or may not carry a
// precomputed VPD column. When present, the stored value is trusted as-is
// (Excel-derived VPD is never re-derived); when absent, EffectiveVPD computes
// it from temperature and humidity.
type IslandSample struct {
	TemperatureC float64  `json:"temperature"`
	HumidityPct  float64  `json:"humidity"`
	VPDKPa       *float64 `json:"vpd,omitempty"`
}

// EffectiveVPD returns the stored VPD when one exists, otherwise the value
// computed from the sample's temperature and humidity.
func (s IslandSample) EffectiveVPD() float64 {
	if s.VPDKPa != nil {
		return *s.VPDKPa
	}
	return psychro.VPD(s.TemperatureC, s.HumidityPct)
}

// EnvironmentalRecord is an immutable snapshot across islands at one
// timestamp on a 5-minute cadence. Islands with no reading at this timestamp
// are simply absent from the map, never zero-filled.
//
// Hour is carried explicitly rather than re-derived from Time: Excel-imported
// and precomputed-JSON sources disagree on timezone handling for
// identical-looking local times, so the ingestion boundary's hour is ground
// truth for classification.
type EnvironmentalRecord struct {
	Time   time.Time `json:"time"`
	Hour   int       `json:"hour"`
	Minute int       `json:"minute"`

	Islands map[string]IslandSample `json:"islands"`

	// Auxiliary columns from the sector workbook, zero when the source
	// doesn't provide them.
	CO2PPM        float64            `json:"co2,omitempty"`
	WeekNumber    int                `json:"weekNumber,omitempty"`
	LightStatus   map[string]int     `json:"lightStatus,omitempty"`
	Dehumidifiers map[string]float64 `json:"dehumidifiers,omitempty"`
}

// Sample returns the reading for one island and whether it exists.
func (r EnvironmentalRecord) Sample(islandID string) (IslandSample, bool) {
	s, ok := r.Islands[islandID]
	return s, ok
}
