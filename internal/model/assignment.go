package model

import "fmt"

// IslandAssignment is the user-configured crop type and growth week for one
// island. Week 0 means unplanted.
type IslandAssignment struct {
	CropType   CropType `json:"cropType"`
	GrowthWeek int      `json:"week"`
}

func (a IslandAssignment) Validate() error {
	switch a.CropType {
	case CropBasil, CropLettuce, CropMixed:
	default:
		return fmt.Errorf("unknown crop type %q", a.CropType)
	}
	if a.GrowthWeek < MinGrowthWeek || a.GrowthWeek > MaxGrowthWeek {
		return fmt.Errorf("growth week %d out of range [%d,%d]", a.GrowthWeek, MinGrowthWeek, MaxGrowthWeek)
	}
	return nil
}

// DefaultAssignments returns the built-in per-island defaults used when a
// sector has no stored configuration.
func DefaultAssignments() map[string]IslandAssignment {
	return map[string]IslandAssignment{
		"I1": {CropType: CropBasil, GrowthWeek: 3},
		"I2": {CropType: CropBasil, GrowthWeek: 2},
		"I3": {CropType: CropMixed, GrowthWeek: 1},
		"I4": {CropType: CropMixed, GrowthWeek: 3},
		"I5": {CropType: CropMixed, GrowthWeek: 0},
		"I6": {CropType: CropMixed, GrowthWeek: 1},
	}
}
