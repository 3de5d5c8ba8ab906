package model

import "sort"

// DatasetMetadata matches the metadata block of the precomputed day JSON.
type DatasetMetadata struct {
	Date         string   `json:"date"`
	EndDate      string   `json:"endDate,omitempty"`
	Sector       string   `json:"sector,omitempty"`
	TotalRecords int      `json:"totalRecords"`
	TimeInterval string   `json:"timeInterval"`
	Islands      []string `json:"islands"`
	ProcessedAt  string   `json:"processedAt,omitempty"`
}

// DayDataset is one day's record series for a sector, in the shape of the
// precomputed JSON document: {metadata, data, statistics}. The statistics
// block is optional and opaque here; the engine always recomputes its own.
type DayDataset struct {
	Metadata   DatasetMetadata       `json:"metadata"`
	Data       []EnvironmentalRecord `json:"data"`
	Statistics map[string]any        `json:"statistics,omitempty"`
}

// IslandIDs returns the island ids declared in metadata, falling back to the
// union of islands seen in the data when metadata doesn't declare any.
func (d *DayDataset) IslandIDs() []string {
	if len(d.Metadata.Islands) > 0 {
		return d.Metadata.Islands
	}
	seen := map[string]bool{}
	var ids []string
	for _, rec := range d.Data {
		for id := range rec.Islands {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}
