package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"vpd-analysis/internal/model"
)

func TestWriteReportCSV(t *testing.T) {
	report := map[string]IslandStatistics{
		"I1": {
			IslandID:       "I1",
			Temperature:    MetricSummary{Count: 4, Avg: 22, Min: 21, Max: 23, Std: 0.5},
			Humidity:       MetricSummary{Count: 4, Avg: 64, Min: 62, Max: 66, Std: 1.2},
			VPD:            MetricSummary{Count: 4, Avg: 1.0, Min: 0.95, Max: 1.05, Std: 0.03},
			OptimalTimePct: 100,
			Band:           model.VPDBand{OptimalMin: 0.9, OptimalMax: 1.1},
			Quality:        QualityExcellent,
		},
		"I2": {IslandID: "I2"}, // no samples
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	if err := WriteReportCSV(path, report); err != nil {
		t.Fatalf("WriteReportCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "I1" || rows[2][0] != "I2" {
		t.Errorf("island order = %q, %q", rows[1][0], rows[2][0])
	}
	if rows[1][2] != "22.000" {
		t.Errorf("temp avg cell = %q", rows[1][2])
	}
	// Absent metrics are empty cells, never zeros.
	for i := 2; i <= 14; i++ {
		if rows[2][i] != "" {
			t.Errorf("empty island column %d = %q, want empty", i, rows[2][i])
		}
	}
	if rows[2][1] != "0" {
		t.Errorf("sample count cell = %q, want 0", rows[2][1])
	}
}
