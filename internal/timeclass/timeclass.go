// Package timeclass maps an hour of day (0-23) to a day/night period and to
// one of five diurnal thermal blocks. Classification is a pure function of
// the hour; the engine never re-derives the hour from a timestamp.
package timeclass

import "fmt"

// Period is the coarse day/night split.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodNight Period = "night"
	// PeriodFull selects everything; it exists for filter parameters, not
	// as a classification result.
	PeriodFull Period = "full"
)

// Block is one of the five diurnal thermal blocks. The five blocks partition
// all 24 hours; dawn_cold wraps past midnight.
type Block string

const (
	BlockDawnCold   Block = "dawn_cold"   // [23,2)
	BlockNightDeep  Block = "night_deep"  // [2,8)
	BlockMorning    Block = "morning"     // [8,12)
	BlockDayActive  Block = "day_active"  // [12,17)
	BlockNightPlant Block = "night_plant" // [17,23)
)

// Blocks lists the five blocks in diurnal order starting at the wraparound.
var Blocks = []Block{BlockDawnCold, BlockNightDeep, BlockMorning, BlockDayActive, BlockNightPlant}

// Convention selects which day/night boundary rule applies. The data source
// this engine grew out of used two incompatible conventions in different
// views; the choice is explicit here instead of silently merged.
type Convention string

const (
	// ConventionPlantCycle treats the plant's lit cycle as day:
	// hour >= 23 || hour < 17. This is the canonical default.
	ConventionPlantCycle Convention = "plant_cycle"
	// ConventionSolar treats solar daytime as day: 6 <= hour < 17.
	ConventionSolar Convention = "solar"
)

// Classifier classifies hours under a fixed day/night convention.
// The zero value uses the plant-cycle convention.
type Classifier struct {
	convention Convention
}

// New returns a Classifier for the given convention. An empty convention
// means plant-cycle.
func New(c Convention) (Classifier, error) {
	switch c {
	case "", ConventionPlantCycle:
		return Classifier{convention: ConventionPlantCycle}, nil
	case ConventionSolar:
		return Classifier{convention: ConventionSolar}, nil
	default:
		return Classifier{}, fmt.Errorf("unknown day/night convention %q", c)
	}
}

// Convention returns the active day/night convention.
func (c Classifier) Convention() Convention {
	if c.convention == "" {
		return ConventionPlantCycle
	}
	return c.convention
}

// Period returns day or night for an hour in [0,23] under the classifier's
// convention.
func (c Classifier) Period(hour int) Period {
	switch c.Convention() {
	case ConventionSolar:
		if hour >= 6 && hour < 17 {
			return PeriodDay
		}
		return PeriodNight
	default:
		if hour >= 23 || hour < 17 {
			return PeriodDay
		}
		return PeriodNight
	}
}

// BlockFor returns the diurnal block for an hour in [0,23]. It is total
// over the 24-hour cycle; out-of-range hours are first wrapped mod 24.
func BlockFor(hour int) Block {
	hour = ((hour % 24) + 24) % 24
	switch {
	case hour >= 23 || hour < 2:
		return BlockDawnCold
	case hour < 8:
		return BlockNightDeep
	case hour < 12:
		return BlockMorning
	case hour < 17:
		return BlockDayActive
	default:
		return BlockNightPlant
	}
}

// ThermalStage is the coarse four-stage thermal phase tag used by the
// thermal analysis rollup.
type ThermalStage string

const (
	StageWarming     ThermalStage = "warming"      // [5,10)
	StageStableDay   ThermalStage = "stable_day"   // [10,14)
	StageCooling     ThermalStage = "cooling"      // [14,21)
	StageStableNight ThermalStage = "stable_night" // remainder
)

// ThermalStageFor returns the thermal stage for an hour in [0,23].
func ThermalStageFor(hour int) ThermalStage {
	switch {
	case hour >= 5 && hour < 10:
		return StageWarming
	case hour >= 10 && hour < 14:
		return StageStableDay
	case hour >= 14 && hour < 21:
		return StageCooling
	default:
		return StageStableNight
	}
}

// ParseBlock converts a string to a Block, accepting only the five known
// values.
func ParseBlock(s string) (Block, error) {
	for _, b := range Blocks {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown time block %q", s)
}

// ParsePeriod converts a string to a Period filter value.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodNight, PeriodFull:
		return Period(s), nil
	case "":
		return PeriodFull, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}
