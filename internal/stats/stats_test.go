package stats

import (
	"math"
	"testing"

	"vpd-analysis/internal/model"
	"vpd-analysis/internal/timeclass"
)

func fixedBand(b model.VPDBand) BandResolver {
	return func(string) model.VPDBand { return b }
}

func sample(temp, hum, vpd float64) model.IslandSample {
	v := vpd
	return model.IslandSample{TemperatureC: temp, HumidityPct: hum, VPDKPa: &v}
}

func record(hour, minute int, islands map[string]model.IslandSample) model.EnvironmentalRecord {
	return model.EnvironmentalRecord{Hour: hour, Minute: minute, Islands: islands}
}

var testBand = model.VPDBand{OptimalMin: 0.9, OptimalMax: 1.1, AcceptableMin: 0.85, AcceptableMax: 1.15}

func fullFilter() Filter {
	return Filter{Period: timeclass.PeriodFull}
}

func TestComputeEmptyRecordsYieldsAbsentMetrics(t *testing.T) {
	report := Compute(nil, []string{"I1"}, fullFilter(), fixedBand(testBand))
	st, ok := report["I1"]
	if !ok {
		t.Fatal("I1 missing from report")
	}
	if st.HasData() {
		t.Error("empty input should have no data")
	}
	if st.VPD.Count != 0 || st.Temperature.Count != 0 || st.Humidity.Count != 0 {
		t.Errorf("counts should all be zero: %+v", st)
	}
	if st.VPD.Avg != 0 || math.IsInf(st.VPD.Min, 0) || math.IsNaN(st.VPD.Std) {
		t.Errorf("absent metric leaked sentinel values: %+v", st.VPD)
	}
	if st.Quality != "" {
		t.Errorf("island without data should stay ungraded, got %q", st.Quality)
	}
}

func TestComputeConstantSeries(t *testing.T) {
	var records []model.EnvironmentalRecord
	for i := 0; i < 12; i++ {
		records = append(records, record(10, i*5, map[string]model.IslandSample{
			"I1": sample(22, 65, 1.0),
		}))
	}
	report := Compute(records, []string{"I1"}, fullFilter(), fixedBand(testBand))
	st := report["I1"]

	if st.VPD.Count != 12 {
		t.Fatalf("VPD count = %d, want 12", st.VPD.Count)
	}
	if st.VPD.Avg != 1.0 || st.VPD.Min != 1.0 || st.VPD.Max != 1.0 {
		t.Errorf("constant series avg/min/max = %g/%g/%g, want 1.0", st.VPD.Avg, st.VPD.Min, st.VPD.Max)
	}
	if st.VPD.Std != 0 {
		t.Errorf("constant series std = %g, want 0", st.VPD.Std)
	}
	if st.OptimalTimePct != 100 {
		t.Errorf("optimal time = %g, want 100", st.OptimalTimePct)
	}
	if st.Quality != QualityExcellent {
		t.Errorf("quality = %s, want excellent", st.Quality)
	}
	if len(st.Problems) != 0 {
		t.Errorf("unexpected problems: %v", st.Problems)
	}
}

func TestComputeConstantOutOfBandSeries(t *testing.T) {
	var records []model.EnvironmentalRecord
	for i := 0; i < 6; i++ {
		records = append(records, record(12, i*5, map[string]model.IslandSample{
			"I1": sample(28, 40, 1.6),
		}))
	}
	report := Compute(records, []string{"I1"}, fullFilter(), fixedBand(testBand))
	st := report["I1"]

	if st.OptimalTimePct != 0 {
		t.Errorf("optimal time = %g, want 0", st.OptimalTimePct)
	}
	if st.Quality != QualityNeedsImprovement {
		t.Errorf("quality = %s, want needs_improvement", st.Quality)
	}
	found := false
	for _, p := range st.Problems {
		if p == "average VPD above the optimal range" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing above-range problem, got %v", st.Problems)
	}
}

func TestComputeSkipsRecordsWithoutSamples(t *testing.T) {
	records := []model.EnvironmentalRecord{
		record(9, 0, map[string]model.IslandSample{"I1": sample(20, 70, 1.0)}),
		record(9, 5, map[string]model.IslandSample{"I2": sample(25, 50, 1.4)}),
		record(9, 10, map[string]model.IslandSample{"I1": sample(21, 68, 1.05)}),
	}
	report := Compute(records, []string{"I1", "I2"}, fullFilter(), fixedBand(testBand))

	if got := report["I1"].VPD.Count; got != 2 {
		t.Errorf("I1 count = %d, want 2", got)
	}
	if got := report["I2"].VPD.Count; got != 1 {
		t.Errorf("I2 count = %d, want 1", got)
	}
	if avg := report["I2"].VPD.Avg; avg != 1.4 {
		t.Errorf("I2 avg pulled toward zero: %g", avg)
	}
}

func TestComputeIslandSelection(t *testing.T) {
	records := []model.EnvironmentalRecord{
		record(9, 0, map[string]model.IslandSample{
			"I1": sample(20, 70, 1.0),
			"I2": sample(25, 50, 1.4),
		}),
	}
	filter := fullFilter()
	filter.Islands = []string{"I2"}
	report := Compute(records, []string{"I1", "I2"}, filter, fixedBand(testBand))

	if _, ok := report["I1"]; ok {
		t.Error("unselected island should be omitted entirely")
	}
	if _, ok := report["I2"]; !ok {
		t.Error("selected island missing")
	}
}

func TestFilterPeriodAndBlockIntersect(t *testing.T) {
	classifier, _ := timeclass.New(timeclass.ConventionPlantCycle)
	records := []model.EnvironmentalRecord{
		record(3, 0, map[string]model.IslandSample{"I1": sample(18, 80, 0.4)}),   // night_deep, plant day
		record(10, 0, map[string]model.IslandSample{"I1": sample(22, 65, 1.0)}),  // morning, plant day
		record(19, 0, map[string]model.IslandSample{"I1": sample(20, 75, 0.6)}),  // night_plant, plant night
	}

	day := Filter{Period: timeclass.PeriodDay, Classifier: classifier}
	if got := len(day.Apply(records)); got != 2 {
		t.Errorf("day filter kept %d records, want 2", got)
	}

	night := Filter{Period: timeclass.PeriodNight, Classifier: classifier}
	if got := len(night.Apply(records)); got != 1 {
		t.Errorf("night filter kept %d records, want 1", got)
	}

	morning := timeclass.BlockMorning
	both := Filter{Period: timeclass.PeriodDay, Block: &morning, Classifier: classifier}
	kept := both.Apply(records)
	if len(kept) != 1 || kept[0].Hour != 10 {
		t.Errorf("period+block intersection kept %v", kept)
	}

	// A block fully inside the night period intersected with day keeps nothing.
	nightPlant := timeclass.BlockNightPlant
	empty := Filter{Period: timeclass.PeriodDay, Block: &nightPlant, Classifier: classifier}
	if got := len(empty.Apply(records)); got != 0 {
		t.Errorf("disjoint intersection kept %d records", got)
	}
}

func TestFilterFullPassesEverything(t *testing.T) {
	records := []model.EnvironmentalRecord{
		record(0, 0, nil), record(6, 0, nil), record(12, 0, nil), record(18, 0, nil),
	}
	if got := len(fullFilter().Apply(records)); got != 4 {
		t.Errorf("full filter kept %d, want 4", got)
	}
}

func TestSummarize(t *testing.T) {
	m := summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if m.Count != 8 {
		t.Fatalf("count = %d", m.Count)
	}
	if m.Avg != 5 || m.Min != 2 || m.Max != 9 {
		t.Errorf("avg/min/max = %g/%g/%g", m.Avg, m.Min, m.Max)
	}
	if math.Abs(m.Std-2) > 1e-12 {
		t.Errorf("std = %g, want 2", m.Std)
	}
}

func TestGradeProblemStrings(t *testing.T) {
	st := IslandStatistics{
		Temperature:    MetricSummary{Count: 10, Min: 15, Max: 29}, // range 14 > 6
		Humidity:       MetricSummary{Count: 10, Min: 40, Max: 75}, // range 35 > 20
		VPD:            MetricSummary{Count: 10, Avg: 1.0, Min: 0.5, Max: 1.4}, // range 0.9 > 0.6
		OptimalTimePct: 50,
		Band:           testBand,
	}
	grade(&st)

	if st.Quality != QualityNeedsImprovement {
		t.Errorf("quality = %s", st.Quality)
	}
	want := map[string]bool{
		"high VPD variability over the period": false,
		"low time in the optimal VPD range":    false,
		"excessive temperature swings":         false,
		"excessive humidity swings":            false,
	}
	for _, p := range st.Problems {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Errorf("missing problem %q in %v", p, st.Problems)
		}
	}
}
