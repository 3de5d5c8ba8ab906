package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vpd-analysis/internal/model"
)

// The sector workbook has one sheet per sector. Each row carries an Excel
// serial date in the Time column plus, per island, average temperature,
// average humidity and VPD columns, along with CO2, light-status and week
// number columns.
const (
	colTime       = "Time"
	colCO2        = "CO2 Promedio"
	colWeekNumber = "Week Number"

	colSuffixTemperature = " Temperatura Promedio"
	colSuffixHumidity    = " Humedad Promedio"
	colSuffixVPD         = " VPD"
	colSuffixLight       = " Estado Luz"
)

// excelEpoch is the 1899-12-30 serial-date epoch. Conversion is to a local
// calendar date-time with no timezone shift, matching how the workbooks are
// produced.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.Local)

// ExcelSerialToTime converts an Excel serial day count to a local date-time.
func ExcelSerialToTime(serial float64) time.Time {
	// Round to the nearest second: float64 serials carry sub-microsecond
	// error that would otherwise shift a timestamp across a second boundary.
	d := time.Duration(serial * 24 * float64(time.Hour)).Round(time.Second)
	return excelEpoch.Add(d)
}

// WorkbookSectors lists the sheet names (sectors) in a workbook.
func WorkbookSectors(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// SectorDates lists the distinct calendar dates (YYYY-MM-DD) present in a
// sector sheet, sorted ascending.
func SectorDates(path, sector string) ([]string, error) {
	rows, err := readSheet(path, sector)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, row := range rows {
		serial, ok := row.float(colTime)
		if !ok {
			continue
		}
		seen[ExcelSerialToTime(serial).Format("2006-01-02")] = true
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// LoadDayExcel reads one day's records for a sector from the workbook.
// date is YYYY-MM-DD; an empty date takes every row in the sheet.
//
// Islands with a missing temperature, humidity or VPD cell in a row are
// omitted from that record rather than zero-filled, so downstream
// aggregation sees "no data point", not a fake zero.
func LoadDayExcel(path, sector, date string) (*model.DayDataset, error) {
	rows, err := readSheet(path, sector)
	if err != nil {
		return nil, err
	}

	islandIDs := islandColumns(rows)
	var records []model.EnvironmentalRecord

	for _, row := range rows {
		serial, ok := row.float(colTime)
		if !ok {
			continue
		}
		ts := ExcelSerialToTime(serial)
		if date != "" && ts.Format("2006-01-02") != date {
			continue
		}

		rec := model.EnvironmentalRecord{
			Time:    ts,
			Hour:    ts.Hour(),
			Minute:  ts.Minute(),
			Islands: map[string]model.IslandSample{},
		}
		if co2, ok := row.float(colCO2); ok {
			rec.CO2PPM = co2
		}
		if wk, ok := row.float(colWeekNumber); ok {
			rec.WeekNumber = int(wk)
		}
		for _, id := range islandIDs {
			temp, okT := row.float(id + colSuffixTemperature)
			hum, okH := row.float(id + colSuffixHumidity)
			vpd, okV := row.float(id + colSuffixVPD)
			if !okT || !okH || !okV {
				continue
			}
			v := vpd
			rec.Islands[id] = model.IslandSample{
				TemperatureC: temp,
				HumidityPct:  hum,
				VPDKPa:       &v,
			}
			if light, ok := row.float(id + colSuffixLight); ok {
				if rec.LightStatus == nil {
					rec.LightStatus = map[string]int{}
				}
				rec.LightStatus[id] = int(light)
			}
		}
		if len(rec.Islands) == 0 {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no records for sector %q date %q in %s", sector, date, path)
	}

	ds := &model.DayDataset{
		Metadata: model.DatasetMetadata{
			Date:         records[0].Time.Format("2006-01-02"),
			EndDate:      records[len(records)-1].Time.Format("2006-01-02"),
			Sector:       sector,
			TotalRecords: len(records),
			TimeInterval: "5 minutes",
			Islands:      islandIDs,
			ProcessedAt:  time.Now().Format(time.RFC3339),
		},
		Data: records,
	}
	return ds, nil
}

// sheetRow maps header name to raw cell text for one row.
type sheetRow map[string]string

func (r sheetRow) float(col string) (float64, bool) {
	raw, ok := r[col]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readSheet(path, sector string) ([]sheetRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := f.GetRows(sector)
	if err != nil {
		return nil, fmt.Errorf("sector %q not found in %s: %w", sector, path, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("sector %q in %s has no data rows", sector, path)
	}

	header := raw[0]
	rows := make([]sheetRow, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := sheetRow{}
		for i, name := range header {
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// islandColumns derives the island ids present in the sheet from the
// temperature column headers.
func islandColumns(rows []sheetRow) []string {
	if len(rows) == 0 {
		return nil
	}
	var ids []string
	for col := range rows[0] {
		if strings.HasSuffix(col, colSuffixTemperature) {
			ids = append(ids, strings.TrimSuffix(col, colSuffixTemperature))
		}
	}
	sort.Strings(ids)
	return ids
}
