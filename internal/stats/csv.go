package stats

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteReportCSV writes the per-island statistics rollup as CSV, one row per
// island. Absent metrics render as empty cells, not zeros.
func WriteReportCSV(path string, report map[string]IslandStatistics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"island",
		"samples",
		"temp_avg", "temp_min", "temp_max", "temp_std",
		"humidity_avg", "humidity_min", "humidity_max", "humidity_std",
		"vpd_avg", "vpd_min", "vpd_max", "vpd_std",
		"optimal_time_pct",
		"optimal_min", "optimal_max",
		"quality",
		"problems",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	ids := make([]string, 0, len(report))
	for id := range report {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		st := report[id]
		row := []string{
			st.IslandID,
			strconv.Itoa(st.VPD.Count),
		}
		row = append(row, metricCells(st.Temperature)...)
		row = append(row, metricCells(st.Humidity)...)
		row = append(row, metricCells(st.VPD)...)
		if st.VPD.Count > 0 {
			row = append(row, fmtFloat(st.OptimalTimePct))
		} else {
			row = append(row, "")
		}
		row = append(row,
			fmtFloat(st.Band.OptimalMin),
			fmtFloat(st.Band.OptimalMax),
			string(st.Quality),
			strings.Join(st.Problems, "; "),
		)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func metricCells(m MetricSummary) []string {
	if m.Count == 0 {
		return []string{"", "", "", ""}
	}
	return []string{fmtFloat(m.Avg), fmtFloat(m.Min), fmtFloat(m.Max), fmtFloat(m.Std)}
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}
