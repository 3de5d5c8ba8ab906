// Package psychro implements the psychrometric arithmetic the rest of the
// engine is built on: saturation vapor pressure, vapor pressure deficit, and
// the inverse (required humidity for a target VPD at a given temperature).
//
// All pressures are kPa, temperatures °C, relative humidity in percent.
// Inputs are not clamped: humidity above 100% yields a negative VPD and a
// target VPD that is infeasible at the given temperature yields a required
// humidity outside [0,100]. Both are caller responsibilities; see the
// recommendation engine for how infeasible results get flagged.
package psychro

import "math"

// TempAdjustmentSlope is the empirical °C change per kPa of VPD deviation
// used by the quick linear estimate. It is not a physical constant.
const TempAdjustmentSlope = 5.0

// SaturationVaporPressure returns the saturation vapor pressure in kPa for a
// temperature in °C, using the Magnus-Tetens approximation.
//
// The formula is numerically meaningless below -237.3°C; that regime is not
// guarded because it cannot occur with real sensor data.
func SaturationVaporPressure(tempC float64) float64 {
	return 0.6108 * math.Exp((17.27*tempC)/(tempC+237.3))
}

// VPD returns the vapor pressure deficit in kPa for a temperature in °C and a
// relative humidity in percent.
func VPD(tempC, humidityPct float64) float64 {
	return SaturationVaporPressure(tempC) * (1 - humidityPct/100)
}

// RequiredHumidity returns the relative humidity (percent) needed to reach
// targetVPD at tempC while holding temperature fixed.
//
// The result can fall outside [0,100] when the target is infeasible at that
// temperature. Callers must check feasibility; this function does not error.
func RequiredHumidity(tempC, targetVPD float64) float64 {
	return (1 - targetVPD/SaturationVaporPressure(tempC)) * 100
}

// TemperatureAdjustmentApprox returns a quick linear estimate of the °C delta
// needed to move currentVPD to targetVPD while holding humidity fixed.
// Negative result means cool down. The precise counterpart for the humidity
// axis is RequiredHumidity; both estimation paths are kept because the
// recommendation engine prices them against each other.
func TemperatureAdjustmentApprox(currentVPD, targetVPD float64) float64 {
	return -(currentVPD - targetVPD) * TempAdjustmentSlope
}

// ValidateStoredVPD compares a stored VPD reading against the value computed
// from the same row's temperature and humidity. It returns the absolute
// difference and whether it is within tol.
//
// Imported data is trusted as-is everywhere else in the engine; this utility
// exists for optional data-quality checks at the ingestion boundary.
func ValidateStoredVPD(tempC, humidityPct, storedVPD, tol float64) (delta float64, ok bool) {
	delta = math.Abs(VPD(tempC, humidityPct) - storedVPD)
	return delta, delta <= tol
}
