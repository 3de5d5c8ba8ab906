package stats

import (
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/timeclass"
)

// intervalHours is the dataset cadence expressed in hours (5 minutes).
const intervalHours = 5.0 / 60.0

// ThermalPoint is one record's thermal view for a single island: the
// temperature, the gradient against the previous record (°C/h), and the
// diurnal thermal stage.
type ThermalPoint struct {
	Hour          int                    `json:"hour"`
	Minute        int                    `json:"minute"`
	Temperature   float64                `json:"temperature"`
	GradientCPerH float64                `json:"gradient"`
	Stage         timeclass.ThermalStage `json:"stage"`
}

// ThermalSummary is the per-island thermal rollup over a filtered series.
type ThermalSummary struct {
	IslandID string `json:"island"`

	Temperature MetricSummary `json:"temperature"`
	AmplitudeC  float64       `json:"amplitude"`

	// MaxGradient and MinGradient are only meaningful when the series had
	// at least two sample-bearing records; they stay 0 otherwise.
	MaxGradient float64 `json:"max_gradient"`
	MinGradient float64 `json:"min_gradient"`

	// DegreeHours is the temperature integral over the series (°C·h),
	// accumulated at the 5-minute cadence.
	DegreeHours float64 `json:"degree_hours"`

	// DehumidifierConsumption sums the workbook's dehumidifier readings over
	// the records that carried a sample for this island.
	DehumidifierConsumption float64 `json:"dehumidifier_consumption,omitempty"`

	Points []ThermalPoint `json:"points,omitempty"`
}

// ComputeThermal builds the thermal series and rollup for one island.
// Gradients are computed against the previous record that carried a sample
// for the island; records without a sample are skipped, not zero-filled.
// The first usable point has gradient 0.
func ComputeThermal(records []model.EnvironmentalRecord, islandID string, filter Filter, includePoints bool) ThermalSummary {
	filtered := filter.Apply(records)

	sum := ThermalSummary{IslandID: islandID}
	var temps []float64
	var points []ThermalPoint
	havePrev := false
	gradSeeded := false
	prevTemp := 0.0

	for _, rec := range filtered {
		s, ok := rec.Sample(islandID)
		if !ok {
			continue
		}
		t := s.TemperatureC
		gradient := 0.0
		if havePrev {
			gradient = (t - prevTemp) / intervalHours
			sum.DegreeHours += t * intervalHours
		}
		for _, v := range rec.Dehumidifiers {
			sum.DehumidifierConsumption += v
		}
		p := ThermalPoint{
			Hour:          rec.Hour,
			Minute:        rec.Minute,
			Temperature:   t,
			GradientCPerH: gradient,
			Stage:         timeclass.ThermalStageFor(rec.Hour),
		}
		if havePrev {
			// Seed from the first computed gradient so a monotonic series
			// never reports an extreme of 0 that never occurred.
			if !gradSeeded {
				sum.MaxGradient = gradient
				sum.MinGradient = gradient
				gradSeeded = true
			}
			if gradient > sum.MaxGradient {
				sum.MaxGradient = gradient
			}
			if gradient < sum.MinGradient {
				sum.MinGradient = gradient
			}
		}
		temps = append(temps, t)
		if includePoints {
			points = append(points, p)
		}
		prevTemp = t
		havePrev = true
	}

	sum.Temperature = summarize(temps)
	sum.AmplitudeC = sum.Temperature.Range()
	if includePoints {
		sum.Points = points
	}
	return sum
}
