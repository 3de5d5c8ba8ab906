// Package stats is the record aggregator: it filters a day's record series
// by period, diurnal block and island selection, and computes per-island
// summary statistics against each island's target VPD band.
package stats

import (
	"math"

	"vpd-analysis/internal/model"
	"vpd-analysis/internal/timeclass"
)

// Fixed policy constants for variability grading. These reproduce the
// operational thresholds the dashboards were built around and are not
// user-configurable.
const (
	ExcellentVPDRange       = 0.4 // kPa max-min for an "excellent" day
	GoodVPDRange            = 0.5
	HighVariabilityVPDRange = 0.6 // above this the island is flagged

	ExcellentOptimalPct  = 95.0
	GoodOptimalPct       = 85.0
	AcceptableOptimalPct = 70.0
	LowOptimalPct        = 80.0 // below this a problem is reported

	HighTempRangeC       = 6.0
	HighHumidityRangePct = 20.0
)

// Quality is the overall per-island grade derived from time-in-optimal and
// VPD variability.
type Quality string

const (
	QualityExcellent        Quality = "excellent"
	QualityGood             Quality = "good"
	QualityAcceptable       Quality = "acceptable"
	QualityNeedsImprovement Quality = "needs_improvement"
)

// MetricSummary holds avg/min/max/std for one metric over the filtered
// sample set. Count is the number of samples that contributed; when Count is
// zero every other field is meaningless and callers must treat the metric as
// absent rather than zero.
type MetricSummary struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Std   float64 `json:"std"`
}

// Range returns max-min, or 0 when the summary is empty.
func (m MetricSummary) Range() float64 {
	if m.Count == 0 {
		return 0
	}
	return m.Max - m.Min
}

// IslandStatistics is the full per-island rollup for one filtered subset.
type IslandStatistics struct {
	IslandID string `json:"island"`

	Temperature MetricSummary `json:"temperature"`
	Humidity    MetricSummary `json:"humidity"`
	VPD         MetricSummary `json:"vpd"`

	// OptimalTimePct is the percentage of VPD samples inside the optimal
	// band. Only meaningful when VPD.Count > 0.
	OptimalTimePct float64 `json:"optimal_time_percentage"`

	Band model.VPDBand `json:"band"`

	Quality  Quality  `json:"quality"`
	Problems []string `json:"problems,omitempty"`
}

// HasData reports whether any metric has at least one sample.
func (s IslandStatistics) HasData() bool {
	return s.Temperature.Count > 0 || s.Humidity.Count > 0 || s.VPD.Count > 0
}

// Filter describes the subset of records and islands to aggregate over.
// Period and Block compose by intersection when both are set.
type Filter struct {
	Period     timeclass.Period
	Block      *timeclass.Block
	Islands    []string // nil or empty = all islands in the dataset
	Classifier timeclass.Classifier
}

// Apply returns the records matching the filter's period and block. Island
// selection is applied later, during aggregation, by skipping unselected
// islands rather than zeroing them.
func (f Filter) Apply(records []model.EnvironmentalRecord) []model.EnvironmentalRecord {
	if (f.Period == "" || f.Period == timeclass.PeriodFull) && f.Block == nil {
		return records
	}
	out := make([]model.EnvironmentalRecord, 0, len(records))
	for _, rec := range records {
		if f.Period != "" && f.Period != timeclass.PeriodFull &&
			f.Classifier.Period(rec.Hour) != f.Period {
			continue
		}
		if f.Block != nil && timeclass.BlockFor(rec.Hour) != *f.Block {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// selects reports whether islandID passes the filter's island selection.
func (f Filter) selects(islandID string) bool {
	if len(f.Islands) == 0 {
		return true
	}
	for _, id := range f.Islands {
		if id == islandID {
			return true
		}
	}
	return false
}

// BandResolver maps an island id to its active VPD band.
type BandResolver func(islandID string) model.VPDBand

// Compute aggregates the filtered records into per-island statistics.
// islandIDs is the candidate set (usually the dataset's declared islands);
// islands excluded by the filter are omitted from the result entirely.
//
// Records where an island has no sample contribute nothing for that island.
// An island with zero samples for a metric gets a summary with Count == 0,
// never an Inf min or a zeroed average.
func Compute(records []model.EnvironmentalRecord, islandIDs []string, filter Filter, bandFor BandResolver) map[string]IslandStatistics {
	filtered := filter.Apply(records)
	out := make(map[string]IslandStatistics)

	for _, id := range islandIDs {
		if !filter.selects(id) {
			continue
		}
		var temps, hums, vpds []float64
		for _, rec := range filtered {
			s, ok := rec.Sample(id)
			if !ok {
				continue
			}
			temps = append(temps, s.TemperatureC)
			hums = append(hums, s.HumidityPct)
			vpds = append(vpds, s.EffectiveVPD())
		}

		band := bandFor(id)
		st := IslandStatistics{
			IslandID:    id,
			Temperature: summarize(temps),
			Humidity:    summarize(hums),
			VPD:         summarize(vpds),
			Band:        band,
		}
		if st.VPD.Count > 0 {
			inOptimal := 0
			for _, v := range vpds {
				if band.InOptimal(v) {
					inOptimal++
				}
			}
			st.OptimalTimePct = float64(inOptimal) / float64(len(vpds)) * 100
		}
		grade(&st)
		out[id] = st
	}
	return out
}

// summarize computes avg/min/max/std over values, returning a Count == 0
// summary for an empty slice.
func summarize(values []float64) MetricSummary {
	n := len(values)
	if n == 0 {
		return MetricSummary{}
	}
	sum := 0.0
	minv := values[0]
	maxv := values[0]
	for _, v := range values {
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	avg := sum / float64(n)
	sq := 0.0
	for _, v := range values {
		d := v - avg
		sq += d * d
	}
	return MetricSummary{
		Count: n,
		Avg:   avg,
		Min:   minv,
		Max:   maxv,
		Std:   math.Sqrt(sq / float64(n)),
	}
}

// grade fills in the quality classification and problem list for an island
// that has data. Islands with no VPD samples stay ungraded.
func grade(st *IslandStatistics) {
	if st.VPD.Count == 0 {
		return
	}
	vpdRange := st.VPD.Range()

	switch {
	case st.OptimalTimePct >= ExcellentOptimalPct && vpdRange <= ExcellentVPDRange:
		st.Quality = QualityExcellent
	case st.OptimalTimePct >= GoodOptimalPct && vpdRange <= GoodVPDRange:
		st.Quality = QualityGood
	case st.OptimalTimePct >= AcceptableOptimalPct && vpdRange <= HighVariabilityVPDRange:
		st.Quality = QualityAcceptable
	default:
		st.Quality = QualityNeedsImprovement
	}

	if st.VPD.Avg < st.Band.OptimalMin {
		st.Problems = append(st.Problems, "average VPD below the optimal range")
	} else if st.VPD.Avg > st.Band.OptimalMax {
		st.Problems = append(st.Problems, "average VPD above the optimal range")
	}
	if vpdRange > HighVariabilityVPDRange {
		st.Problems = append(st.Problems, "high VPD variability over the period")
	}
	if st.OptimalTimePct < LowOptimalPct {
		st.Problems = append(st.Problems, "low time in the optimal VPD range")
	}
	if st.Temperature.Count > 0 && st.Temperature.Range() > HighTempRangeC {
		st.Problems = append(st.Problems, "excessive temperature swings")
	}
	if st.Humidity.Count > 0 && st.Humidity.Range() > HighHumidityRangePct {
		st.Problems = append(st.Problems, "excessive humidity swings")
	}
}
