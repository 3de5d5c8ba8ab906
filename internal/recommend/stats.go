package recommend

import "vpd-analysis/internal/stats"

// EvaluateStats evaluates a recommendation from an island's computed
// statistics. It returns ErrNoData when any of the three metrics has zero
// samples; absent statistics are never coerced to zero conditions.
func (e *Engine) EvaluateStats(st stats.IslandStatistics) (Recommendation, error) {
	if st.Temperature.Count == 0 || st.Humidity.Count == 0 || st.VPD.Count == 0 {
		return Recommendation{}, ErrNoData
	}
	cur := Conditions{
		TemperatureC: st.Temperature.Avg,
		HumidityPct:  st.Humidity.Avg,
		VPDKPa:       st.VPD.Avg,
	}
	return e.Evaluate(cur, st.Band), nil
}
