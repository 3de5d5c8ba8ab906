// Package analysis ranks islands against each other over a filtered subset,
// so operators can see at a glance which island needs attention first.
package analysis

import (
	"sort"

	"vpd-analysis/internal/stats"
)

// IslandRank is one island's position in the climate-control ranking.
type IslandRank struct {
	IslandID string `json:"island"`

	// Score combines time-in-optimal with a stability penalty; higher is
	// better. Islands without samples score zero and sort last.
	Score float64 `json:"score"`

	OptimalTimePct float64       `json:"optimal_time_percentage"`
	VPDRange       float64       `json:"vpd_range"`
	Quality        stats.Quality `json:"quality,omitempty"`
}

// rangePenalty converts kPa of VPD spread into score points. A full
// flagged-variability range (0.6 kPa) costs 30 points.
const rangePenalty = 50.0

// RankByControlQuality scores every island in a computed report and sorts
// descending, worst island last. Ties break on island id so the order is
// stable across runs.
func RankByControlQuality(report map[string]stats.IslandStatistics) []IslandRank {
	out := make([]IslandRank, 0, len(report))
	for id, st := range report {
		r := IslandRank{IslandID: id, Quality: st.Quality}
		if st.VPD.Count > 0 {
			r.OptimalTimePct = st.OptimalTimePct
			r.VPDRange = st.VPD.Range()
			r.Score = st.OptimalTimePct - r.VPDRange*rangePenalty
			if r.Score < 0 {
				r.Score = 0
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].IslandID < out[j].IslandID
	})
	return out
}
