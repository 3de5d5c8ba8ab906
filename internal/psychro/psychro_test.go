package psychro

import (
	"math"
	"testing"
)

func TestSaturationVaporPressureKnownPoints(t *testing.T) {
	cases := []struct {
		tempC float64
		want  float64
	}{
		{0, 0.6108},
		{20, 2.3393},
		{25, 3.1686},
		{30, 4.2455},
	}
	for _, c := range cases {
		got := SaturationVaporPressure(c.tempC)
		if math.Abs(got-c.want) > 0.01 {
			t.Errorf("SVP(%.0f) = %.4f, want %.4f", c.tempC, got, c.want)
		}
	}
}

func TestSaturationVaporPressureMonotonic(t *testing.T) {
	prev := SaturationVaporPressure(-10)
	for tempC := -9.0; tempC <= 50; tempC++ {
		cur := SaturationVaporPressure(tempC)
		if cur <= prev {
			t.Fatalf("SVP not increasing at %.0f°C: %.4f <= %.4f", tempC, cur, prev)
		}
		prev = cur
	}
}

func TestVPD(t *testing.T) {
	// 20°C at 70% RH is the canonical sanity point.
	got := VPD(20, 70)
	if math.Abs(got-0.7018) > 0.001 {
		t.Errorf("VPD(20, 70) = %.4f, want ~0.7018", got)
	}

	if v := VPD(25, 100); math.Abs(v) > 1e-9 {
		t.Errorf("VPD at 100%% RH = %g, want 0", v)
	}
	if v := VPD(25, 110); v >= 0 {
		t.Errorf("VPD above 100%% RH = %g, want negative", v)
	}
	if v := VPD(25, 0); math.Abs(v-SaturationVaporPressure(25)) > 1e-9 {
		t.Errorf("VPD at 0%% RH = %g, want SVP", v)
	}
}

func TestRequiredHumidityRoundTrip(t *testing.T) {
	for _, tempC := range []float64{15, 20, 24, 28} {
		for _, target := range []float64{0.5, 0.9, 1.1, 1.5} {
			rh := RequiredHumidity(tempC, target)
			back := VPD(tempC, rh)
			if math.Abs(back-target) > 1e-6 {
				t.Errorf("round trip at %.0f°C target %.2f: got %.8f", tempC, target, back)
			}
		}
	}
}

func TestRequiredHumidityKnownPoint(t *testing.T) {
	// At 20°C a 1.0 kPa target needs ~57.2% RH.
	got := RequiredHumidity(20, 1.0)
	if math.Abs(got-57.25) > 0.1 {
		t.Errorf("RequiredHumidity(20, 1.0) = %.2f, want ~57.25", got)
	}
}

func TestRequiredHumidityInfeasibleTarget(t *testing.T) {
	// A target above SVP cannot be reached at any humidity in [0,100].
	got := RequiredHumidity(10, 2.0)
	if got >= 0 {
		t.Errorf("infeasible target should yield negative humidity, got %.2f", got)
	}
}

func TestTemperatureAdjustmentApprox(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{1.2, 1.0, -1.0}, // too high: cool down
		{0.8, 1.0, 1.0},  // too low: warm up
		{1.0, 1.0, 0.0},
	}
	for _, c := range cases {
		got := TemperatureAdjustmentApprox(c.current, c.target)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("TemperatureAdjustmentApprox(%.1f, %.1f) = %.2f, want %.2f", c.current, c.target, got, c.want)
		}
	}
}

func TestValidateStoredVPD(t *testing.T) {
	computed := VPD(22, 65)

	if delta, ok := ValidateStoredVPD(22, 65, computed, 0.01); !ok || delta > 1e-9 {
		t.Errorf("exact stored value rejected: delta=%g ok=%v", delta, ok)
	}
	if _, ok := ValidateStoredVPD(22, 65, computed+0.5, 0.1); ok {
		t.Error("stored value 0.5 kPa off accepted at tol 0.1")
	}
	if delta, ok := ValidateStoredVPD(22, 65, computed+0.05, 0.1); !ok {
		t.Errorf("stored value within tol rejected: delta=%g", delta)
	}
}
