package model

import (
	"errors"
	"fmt"
)

// CropType identifies what is planted on an island. Keep these values
// stable; they are persisted in the configuration store and in CSV output.
type CropType string

const (
	CropBasil   CropType = "basil"
	CropLettuce CropType = "lettuce"
	CropMixed   CropType = "mixed"
)

// CropTypes lists every known crop type.
var CropTypes = []CropType{CropBasil, CropLettuce, CropMixed}

// MinGrowthWeek and MaxGrowthWeek bound the growth-week stage. Week 0 means
// unplanted; weeks 1-3 are successive development stages.
const (
	MinGrowthWeek = 0
	MaxGrowthWeek = 3
)

// VPDBand is the nested optimal/acceptable target range in kPa for one
// (crop, week) stage.
type VPDBand struct {
	OptimalMin    float64 `json:"optimal_min"`
	OptimalMax    float64 `json:"optimal_max"`
	AcceptableMin float64 `json:"acceptable_min"`
	AcceptableMax float64 `json:"acceptable_max"`
}

// Validate checks the band ordering invariant.
func (b VPDBand) Validate() error {
	if !(b.AcceptableMin <= b.OptimalMin && b.OptimalMin <= b.OptimalMax && b.OptimalMax <= b.AcceptableMax) {
		return fmt.Errorf("band not ordered: acceptable [%g,%g] optimal [%g,%g]",
			b.AcceptableMin, b.AcceptableMax, b.OptimalMin, b.OptimalMax)
	}
	return nil
}

// Target returns the midpoint of the optimal range, the value the
// recommendation engine steers toward.
func (b VPDBand) Target() float64 {
	return (b.OptimalMin + b.OptimalMax) / 2
}

// InOptimal reports whether vpd falls inside the optimal range (inclusive).
func (b VPDBand) InOptimal(vpd float64) bool {
	return vpd >= b.OptimalMin && vpd <= b.OptimalMax
}

// InAcceptable reports whether vpd falls inside the acceptable range.
func (b VPDBand) InAcceptable(vpd float64) bool {
	return vpd >= b.AcceptableMin && vpd <= b.AcceptableMax
}

// BandTable is the immutable two-level (crop, week) -> VPDBand lookup.
// Construct it with NewBandTable, which fails fast if any pair is missing
// or mis-ordered.
type BandTable struct {
	bands map[CropType][4]VPDBand
}

// NewBandTable validates that every (cropType, week 0-3) pair is present and
// ordered. The input maps week -> band per crop.
func NewBandTable(src map[CropType]map[int]VPDBand) (*BandTable, error) {
	if len(src) == 0 {
		return nil, errors.New("band table is empty")
	}
	out := make(map[CropType][4]VPDBand, len(src))
	for _, crop := range CropTypes {
		weeks, ok := src[crop]
		if !ok {
			return nil, fmt.Errorf("band table missing crop %q", crop)
		}
		var arr [4]VPDBand
		for week := MinGrowthWeek; week <= MaxGrowthWeek; week++ {
			band, ok := weeks[week]
			if !ok {
				return nil, fmt.Errorf("band table missing (%s, week %d)", crop, week)
			}
			if err := band.Validate(); err != nil {
				return nil, fmt.Errorf("band (%s, week %d): %w", crop, week, err)
			}
			arr[week] = band
		}
		out[crop] = arr
	}
	return &BandTable{bands: out}, nil
}

// Band resolves the target band for a crop and growth week. Unknown crops
// and out-of-range weeks fall back to the unplanted band, which exists for
// every crop by construction.
func (t *BandTable) Band(crop CropType, week int) VPDBand {
	arr, ok := t.bands[crop]
	if !ok {
		arr = t.bands[CropMixed]
	}
	if week < MinGrowthWeek || week > MaxGrowthWeek {
		week = 0
	}
	return arr[week]
}

// unplantedBand is the wide week-0 band shared by every crop type.
var unplantedBand = VPDBand{OptimalMin: 0.50, OptimalMax: 1.50, AcceptableMin: 0.30, AcceptableMax: 2.00}

// DefaultBandTable returns the built-in crop/week band table. Acceptable
// ranges widen the optimal range by 0.05 kPa on each side for planted weeks.
func DefaultBandTable() *BandTable {
	planted := func(lo, hi float64) VPDBand {
		return VPDBand{OptimalMin: lo, OptimalMax: hi, AcceptableMin: lo - 0.05, AcceptableMax: hi + 0.05}
	}
	t, err := NewBandTable(map[CropType]map[int]VPDBand{
		CropBasil: {
			0: unplantedBand,
			1: planted(1.05, 1.15),
			2: planted(0.95, 1.10),
			3: planted(0.85, 1.05),
		},
		CropLettuce: {
			0: unplantedBand,
			1: planted(0.95, 1.05),
			2: planted(0.85, 0.95),
			3: planted(0.75, 0.90),
		},
		CropMixed: {
			0: unplantedBand,
			1: planted(1.00, 1.10),
			2: planted(0.90, 1.00),
			3: planted(0.80, 0.95),
		},
	})
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return t
}
