package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"vpd-analysis/internal/analysis"
	"vpd-analysis/internal/config"
	"vpd-analysis/internal/cropconfig"
	"vpd-analysis/internal/data"
	"vpd-analysis/internal/model"
	"vpd-analysis/internal/psychro"
	"vpd-analysis/internal/recommend"
	"vpd-analysis/internal/stats"
	"vpd-analysis/internal/timeclass"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "recommend":
		cmdRecommend(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	case "sectors":
		cmdSectors(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli analyze --data day.json --config config.yaml --out results/report.csv")
	fmt.Println("  cli analyze --workbook vpd_sectors.xlsx --sector \"Sector 2\" --date 2025-05-14")
	fmt.Println("  cli recommend --temp 24 --humidity 62 --crop basil --week 3")
	fmt.Println("  cli rank --data day.json")
	fmt.Println("  cli sectors --workbook vpd_sectors.xlsx")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - analyze prints per-island VPD statistics, quality and the cheaper adjustment")
	fmt.Println("  - recommend evaluates one set of conditions against the crop/week band")
	fmt.Println("  - rank orders islands by control quality, worst last")
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to a day JSON document")
	workbook := fs.String("workbook", "", "Path to a sector workbook (xlsx)")
	sector := fs.String("sector", "", "Sector sheet name (workbook mode)")
	date := fs.String("date", "", "Date YYYY-MM-DD (workbook mode, optional)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	period := fs.String("period", "full", "Period filter: day, night or full")
	block := fs.String("block", "", "Diurnal block filter (optional)")
	outPath := fs.String("out", "", "Optional CSV report path")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	var ds *model.DayDataset
	var err error
	switch {
	case *dataPath != "":
		ds, err = data.LoadDayJSON(*dataPath)
	case *workbook != "":
		if *sector == "" {
			fmt.Println("--sector is required with --workbook")
			os.Exit(2)
		}
		ds, err = data.LoadDayExcel(*workbook, *sector, *date)
	default:
		fmt.Println("--data or --workbook is required")
		os.Exit(2)
	}
	if err != nil {
		panic(err)
	}

	filter, err := buildFilter(cfg, *period, *block)
	if err != nil {
		panic(err)
	}

	store := cropconfig.NewStore(cfg.ConfigStore)
	bands := model.DefaultBandTable()
	engine := recommend.New(cfg.RecommendParams())

	sectorName := ds.Metadata.Sector
	if sectorName == "" {
		sectorName = "Default"
	}
	bandFor := func(islandID string) model.VPDBand {
		a, _ := store.Get(sectorName, islandID)
		return bands.Band(a.CropType, a.GrowthWeek)
	}

	report := stats.Compute(ds.Data, ds.IslandIDs(), filter, bandFor)

	ids := make([]string, 0, len(report))
	for id := range report {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("Loaded %d records (%s, sector %s, period %s)\n\n",
		len(ds.Data), ds.Metadata.Date, sectorName, *period)
	fmt.Printf("%-6s %-8s %-9s %-9s %-9s %-9s %-18s %s\n",
		"island", "samples", "vpd-avg", "vpd-min", "vpd-max", "opt%", "quality", "action")

	for _, id := range ids {
		st := report[id]
		if !st.HasData() {
			fmt.Printf("%-6s %-8d (no samples in filtered subset)\n", id, 0)
			continue
		}
		action := "-"
		if rec, err := engine.EvaluateStats(st); err == nil {
			action = describeAction(rec)
		}
		fmt.Printf("%-6s %-8d %-9.3f %-9.3f %-9.3f %-9.1f %-18s %s\n",
			id, st.VPD.Count, st.VPD.Avg, st.VPD.Min, st.VPD.Max,
			st.OptimalTimePct, string(st.Quality), action)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		if err := stats.WriteReportCSV(*outPath, report); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote report to %s\n", *outPath)
	}
}

func cmdRecommend(args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	temp := fs.Float64("temp", 0, "Current average temperature °C")
	humidity := fs.Float64("humidity", 0, "Current average relative humidity %")
	vpd := fs.Float64("vpd", 0, "Current VPD kPa (optional; computed when 0)")
	crop := fs.String("crop", "mixed", "Crop type: basil, lettuce or mixed")
	week := fs.Int("week", 0, "Growth week 0-3")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	assignment := model.IslandAssignment{CropType: model.CropType(*crop), GrowthWeek: *week}
	if err := assignment.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	cur := recommend.Conditions{TemperatureC: *temp, HumidityPct: *humidity, VPDKPa: *vpd}
	if cur.VPDKPa == 0 {
		cur.VPDKPa = psychro.VPD(*temp, *humidity)
	}

	bands := model.DefaultBandTable()
	band := bands.Band(assignment.CropType, assignment.GrowthWeek)
	rec := recommend.New(cfg.RecommendParams()).Evaluate(cur, band)

	fmt.Printf("Conditions: %.1f°C  %.1f%%RH  VPD %.3f kPa\n", cur.TemperatureC, cur.HumidityPct, cur.VPDKPa)
	fmt.Printf("Band %s/week %d: optimal [%.2f, %.2f], target %.3f kPa\n",
		*crop, *week, band.OptimalMin, band.OptimalMax, rec.TargetVPD)
	fmt.Printf("Status: %s\n\n", rec.Status)

	printOption(rec.TemperatureOption, "°C")
	printOption(rec.HumidityOption, "%RH")

	fmt.Printf("\nRecommended: %s\n", rec.RecommendedAction)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to a day JSON document")
	workbook := fs.String("workbook", "", "Path to a sector workbook (xlsx)")
	sector := fs.String("sector", "", "Sector sheet name (workbook mode)")
	date := fs.String("date", "", "Date YYYY-MM-DD (workbook mode, optional)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)

	var ds *model.DayDataset
	var err error
	switch {
	case *dataPath != "":
		ds, err = data.LoadDayJSON(*dataPath)
	case *workbook != "":
		if *sector == "" {
			fmt.Println("--sector is required with --workbook")
			os.Exit(2)
		}
		ds, err = data.LoadDayExcel(*workbook, *sector, *date)
	default:
		fmt.Println("--data or --workbook is required")
		os.Exit(2)
	}
	if err != nil {
		panic(err)
	}

	store := cropconfig.NewStore(cfg.ConfigStore)
	bands := model.DefaultBandTable()
	sectorName := ds.Metadata.Sector
	if sectorName == "" {
		sectorName = "Default"
	}
	bandFor := func(islandID string) model.VPDBand {
		a, _ := store.Get(sectorName, islandID)
		return bands.Band(a.CropType, a.GrowthWeek)
	}

	filter := stats.Filter{Period: timeclass.PeriodFull, Classifier: cfg.Classifier()}
	report := stats.Compute(ds.Data, ds.IslandIDs(), filter, bandFor)

	ranked := analysis.RankByControlQuality(report)
	fmt.Printf("%-4s %-8s %-8s %-8s %-10s %s\n", "rank", "island", "score", "opt%", "vpd-range", "quality")
	for i, r := range ranked {
		fmt.Printf("%-4d %-8s %-8.1f %-8.1f %-10.3f %s\n",
			i+1, r.IslandID, r.Score, r.OptimalTimePct, r.VPDRange, r.Quality)
	}
}

func cmdSectors(args []string) {
	fs := flag.NewFlagSet("sectors", flag.ExitOnError)
	workbook := fs.String("workbook", "", "Path to a sector workbook (xlsx)")
	_ = fs.Parse(args)

	if *workbook == "" {
		fmt.Println("--workbook is required")
		os.Exit(2)
	}

	sectors, err := data.WorkbookSectors(*workbook)
	if err != nil {
		panic(err)
	}
	for _, s := range sectors {
		dates, err := data.SectorDates(*workbook, s)
		if err != nil {
			fmt.Printf("%-12s (error: %v)\n", s, err)
			continue
		}
		span := "empty"
		if len(dates) > 0 {
			span = fmt.Sprintf("%s .. %s (%d days)", dates[0], dates[len(dates)-1], len(dates))
		}
		fmt.Printf("%-12s %s\n", s, span)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildFilter(cfg *config.Config, period, block string) (stats.Filter, error) {
	p, err := timeclass.ParsePeriod(period)
	if err != nil {
		return stats.Filter{}, err
	}
	filter := stats.Filter{Period: p, Classifier: cfg.Classifier()}
	if block != "" {
		b, err := timeclass.ParseBlock(block)
		if err != nil {
			return stats.Filter{}, err
		}
		filter.Block = &b
	}
	return filter, nil
}

func describeAction(rec recommend.Recommendation) string {
	switch rec.RecommendedAction {
	case recommend.ActionTemperature:
		return fmt.Sprintf("temp %+.1f°C (%.0f W)", rec.TemperatureOption.Delta, rec.TemperatureOption.EnergyCostW)
	case recommend.ActionHumidity:
		return fmt.Sprintf("humidity %+.1f%% (%.0f W)", rec.HumidityOption.Delta, rec.HumidityOption.EnergyCostW)
	default:
		return "maintain"
	}
}

func printOption(opt recommend.Option, unit string) {
	fmt.Printf("  %-11s delta=%+.1f%s exact=%+.2f%s -> %.1f  projected VPD %.3f  cost %.0f W (%s)\n",
		string(opt.Action), opt.Delta, unit, opt.ExactDelta, unit,
		opt.Adjusted, opt.ProjectedVPD, opt.EnergyCostW, opt.Feasibility)
}
