package data

import (
	"encoding/json"
	"fmt"
	"os"

	"vpd-analysis/internal/model"
)

// LoadDayJSON reads a precomputed day dataset in the
// {metadata, data, statistics} document shape. A missing statistics block is
// fine; the engine recomputes statistics anyway.
func LoadDayJSON(path string) (*model.DayDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds model.DayDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(ds.Data) == 0 {
		return nil, fmt.Errorf("%s: dataset has no records", path)
	}
	return &ds, nil
}
