package main

import (
	"flag"
	"fmt"
	"sort"

	"vpd-analysis/internal/config"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/recommend"
	"vpd-analysis/internal/stats"
	"vpd-analysis/internal/timeclass"
)

// Demo:
// - Load a day JSON document
// - Compute per-island statistics for the full day
// - Evaluate a recommendation per island to show how the pieces fit together
func main() {
	dataPath := flag.String("data", "sample_day.json", "Path to a day JSON document")
	n := flag.Int("n", 6, "Number of records to print")
	flag.Parse()

	ds, err := data.LoadDayJSON(*dataPath)
	if err != nil {
		panic(err)
	}
	if len(ds.Data) == 0 {
		panic("no records in JSON")
	}

	cfg := config.Default()
	classifier := cfg.Classifier()

	fmt.Printf("Loaded %d records for %s (islands: %v)\n\n", len(ds.Data), ds.Metadata.Date, ds.IslandIDs())

	for i := 0; i < min(*n, len(ds.Data)); i++ {
		rec := ds.Data[i]
		block := timeclass.BlockFor(rec.Hour)
		fmt.Printf("%s  hour=%02d  period=%-5s  block=%-11s",
			rec.Time.Format("2006-01-02 15:04"), rec.Hour,
			classifier.Period(rec.Hour), block)
		for _, id := range ds.IslandIDs() {
			if s, ok := rec.Sample(id); ok {
				fmt.Printf("  %s=%.2fkPa", id, s.EffectiveVPD())
			}
		}
		fmt.Println()
	}

	bands := model.DefaultBandTable()
	assignments := model.DefaultAssignments()
	bandFor := func(islandID string) model.VPDBand {
		a := assignments[islandID]
		return bands.Band(a.CropType, a.GrowthWeek)
	}

	filter := stats.Filter{Period: timeclass.PeriodFull, Classifier: classifier}
	report := stats.Compute(ds.Data, ds.IslandIDs(), filter, bandFor)
	engine := recommend.New(recommend.Params{})

	ids := make([]string, 0, len(report))
	for id := range report {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println()
	for _, id := range ids {
		st := report[id]
		if !st.HasData() {
			fmt.Printf("%s: no samples\n", id)
			continue
		}
		a := assignments[id]
		fmt.Printf("%s (%s/week %d): vpd avg=%.3f range=[%.3f, %.3f] optimal=%.1f%% quality=%s\n",
			id, a.CropType, a.GrowthWeek, st.VPD.Avg, st.VPD.Min, st.VPD.Max,
			st.OptimalTimePct, st.Quality)
		rec, err := engine.EvaluateStats(st)
		if err != nil {
			continue
		}
		switch rec.RecommendedAction {
		case recommend.ActionMaintain:
			fmt.Printf("  status=%s, maintain current conditions\n", rec.Status)
		case recommend.ActionTemperature:
			fmt.Printf("  status=%s, adjust temperature %+.1f°C (%.0f W, %s)\n",
				rec.Status, rec.TemperatureOption.Delta,
				rec.TemperatureOption.EnergyCostW, rec.TemperatureOption.Feasibility)
		case recommend.ActionHumidity:
			fmt.Printf("  status=%s, adjust humidity %+.1f%% (%.0f W, %s)\n",
				rec.Status, rec.HumidityOption.Delta,
				rec.HumidityOption.EnergyCostW, rec.HumidityOption.Feasibility)
		}
	}

	fmt.Println("\nDone.")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
