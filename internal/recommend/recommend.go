// Package recommend derives humidity/temperature adjustment recommendations
// from an island's current average conditions and its target VPD band.
//
// The engine is stateless: status is recomputed from scratch on every
// evaluation, never transitioned. Both competing options (temperature-only
// and humidity-only) are always computed and returned; the UI shows both
// with the cheaper one starred.
package recommend

import (
	"errors"

	"vpd-analysis/internal/model"
	"vpd-analysis/internal/psychro"
)

// Status classifies the current average VPD against the optimal band.
type Status string

const (
	StatusOptimal Status = "optimal"
	StatusLow     Status = "low"
	StatusHigh    Status = "high"
)

// ActionType identifies which control axis an option adjusts.
type ActionType string

const (
	ActionTemperature ActionType = "temperature"
	ActionHumidity    ActionType = "humidity"
	ActionMaintain    ActionType = "maintain"
)

// Feasibility grades how hard an option is to execute given where it leaves
// the adjusted variable relative to the comfortable operating band.
type Feasibility string

const (
	FeasibilityEasy      Feasibility = "easy"
	FeasibilityModerate  Feasibility = "moderate"
	FeasibilityDifficult Feasibility = "difficult"
)

// Params are the tunable knobs of the engine. Zero values are replaced by
// DefaultParams values, so a partially filled struct is usable.
type Params struct {
	// TempStepC and HumidityStepPct are the fixed proposal steps.
	TempStepC       float64
	HumidityStepPct float64

	// Energy rates per unit of adjustment.
	TempCostWPerC       float64
	HumidityCostWPerPct float64

	// Comfortable operating envelope; adjusted values that leave it get a
	// feasibility penalty.
	ComfortHumidityMinPct float64
	ComfortHumidityMaxPct float64
	ComfortTempMinC       float64
	ComfortTempMaxC       float64
}

// DefaultParams returns the operating defaults: ±2°C / ∓10%RH steps,
// 180 W/°C vs 40 W/%RH energy rates, RH comfort 50-85%, temp comfort
// 18-30°C.
func DefaultParams() Params {
	return Params{
		TempStepC:             2.0,
		HumidityStepPct:       10.0,
		TempCostWPerC:         180.0,
		HumidityCostWPerPct:   40.0,
		ComfortHumidityMinPct: 50.0,
		ComfortHumidityMaxPct: 85.0,
		ComfortTempMinC:       18.0,
		ComfortTempMaxC:       30.0,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.TempStepC == 0 {
		p.TempStepC = d.TempStepC
	}
	if p.HumidityStepPct == 0 {
		p.HumidityStepPct = d.HumidityStepPct
	}
	if p.TempCostWPerC == 0 {
		p.TempCostWPerC = d.TempCostWPerC
	}
	if p.HumidityCostWPerPct == 0 {
		p.HumidityCostWPerPct = d.HumidityCostWPerPct
	}
	if p.ComfortHumidityMinPct == 0 {
		p.ComfortHumidityMinPct = d.ComfortHumidityMinPct
	}
	if p.ComfortHumidityMaxPct == 0 {
		p.ComfortHumidityMaxPct = d.ComfortHumidityMaxPct
	}
	if p.ComfortTempMinC == 0 {
		p.ComfortTempMinC = d.ComfortTempMinC
	}
	if p.ComfortTempMaxC == 0 {
		p.ComfortTempMaxC = d.ComfortTempMaxC
	}
	return p
}

// Conditions are the current average conditions for one island.
type Conditions struct {
	TemperatureC float64
	HumidityPct  float64
	VPDKPa       float64
}

// Option is one adjustment proposal along a single control axis.
type Option struct {
	Action ActionType `json:"action"`

	// Delta is the proposed change (°C or %RH, signed): the fixed step,
	// capped at ExactDelta when the target is closer than one step so the
	// proposal never overshoots past it.
	Delta float64 `json:"delta"`
	// ExactDelta is the precise change that would land on the band
	// midpoint: the k-slope linear estimate for temperature, the
	// saturation-pressure inverse for humidity.
	ExactDelta float64 `json:"exact_delta"`

	// Adjusted is the variable's value after applying Delta.
	Adjusted float64 `json:"adjusted"`
	// ProjectedVPD is the VPD resulting from the fixed-step change.
	ProjectedVPD float64 `json:"projected_vpd"`

	EnergyCostW float64     `json:"energy_cost_w"`
	Feasibility Feasibility `json:"feasibility"`

	Recommended bool `json:"recommended"`
}

// Recommendation is the full evaluation result for one island.
type Recommendation struct {
	Status  Status     `json:"status"`
	Current Conditions `json:"-"`

	TargetVPD float64       `json:"target_vpd"`
	Band      model.VPDBand `json:"band"`

	// TemperatureOption and HumidityOption are both always present for
	// low/high status; for optimal status they describe the (unneeded)
	// nearest adjustments and RecommendedAction is "maintain".
	TemperatureOption Option `json:"temperature_option"`
	HumidityOption    Option `json:"humidity_option"`

	RecommendedAction ActionType `json:"recommended_action"`
}

// Engine evaluates recommendations under a fixed set of params.
type Engine struct {
	params Params
}

// New returns an Engine, filling zero params with defaults.
func New(params Params) *Engine {
	return &Engine{params: params.withDefaults()}
}

// ErrNoData is returned when the caller evaluates an island whose statistics
// had no samples. Missing statistics must never be treated as zeros.
var ErrNoData = errors.New("no samples to recommend from")

// Evaluate computes the recommendation for the given current conditions and
// band. The caller is responsible for only passing conditions backed by at
// least one sample; see EvaluateStats for the checked variant.
func (e *Engine) Evaluate(cur Conditions, band model.VPDBand) Recommendation {
	p := e.params
	target := band.Target()

	rec := Recommendation{
		Current:   cur,
		TargetVPD: target,
		Band:      band,
	}

	switch {
	case band.InOptimal(cur.VPDKPa):
		rec.Status = StatusOptimal
	case cur.VPDKPa < band.OptimalMin:
		rec.Status = StatusLow
	default:
		rec.Status = StatusHigh
	}

	// Direction of the fixed steps: raising VPD means warmer or drier,
	// lowering VPD means cooler or wetter. For optimal status the options
	// are priced in the direction of the (small) residual so both costs
	// are still surfaced.
	raise := cur.VPDKPa < target

	tempDelta := p.TempStepC
	humDelta := -p.HumidityStepPct
	if !raise {
		tempDelta = -p.TempStepC
		humDelta = p.HumidityStepPct
	}

	rec.TemperatureOption = e.temperatureOption(cur, target, tempDelta)
	rec.HumidityOption = e.humidityOption(cur, target, humDelta)

	if rec.Status == StatusOptimal {
		rec.RecommendedAction = ActionMaintain
		return rec
	}

	if rec.TemperatureOption.EnergyCostW <= rec.HumidityOption.EnergyCostW {
		rec.RecommendedAction = ActionTemperature
		rec.TemperatureOption.Recommended = true
	} else {
		rec.RecommendedAction = ActionHumidity
		rec.HumidityOption.Recommended = true
	}
	return rec
}

func (e *Engine) temperatureOption(cur Conditions, target, delta float64) Option {
	p := e.params
	exact := psychro.TemperatureAdjustmentApprox(cur.VPDKPa, target)
	// Near the band the full step would overshoot; cap it at the exact
	// delta so the projected VPD stays strictly closer to the target.
	if abs(exact) < abs(delta) {
		delta = exact
	}
	adjusted := cur.TemperatureC + delta
	opt := Option{
		Action:       ActionTemperature,
		Delta:        delta,
		ExactDelta:   exact,
		Adjusted:     adjusted,
		ProjectedVPD: psychro.VPD(adjusted, cur.HumidityPct),
	}
	opt.Feasibility = feasibility(adjusted, p.ComfortTempMinC, p.ComfortTempMaxC, 3.0)
	opt.EnergyCostW = abs(delta) * p.TempCostWPerC * costMultiplier(opt.Feasibility)
	return opt
}

func (e *Engine) humidityOption(cur Conditions, target, delta float64) Option {
	p := e.params
	exact := psychro.RequiredHumidity(cur.TemperatureC, target) - cur.HumidityPct
	if abs(exact) < abs(delta) {
		delta = exact
	}
	adjusted := cur.HumidityPct + delta
	opt := Option{
		Action:       ActionHumidity,
		Delta:        delta,
		ExactDelta:   exact,
		Adjusted:     adjusted,
		ProjectedVPD: psychro.VPD(cur.TemperatureC, adjusted),
	}
	opt.Feasibility = feasibility(adjusted, p.ComfortHumidityMinPct, p.ComfortHumidityMaxPct, 5.0)
	opt.EnergyCostW = abs(delta) * p.HumidityCostWPerPct * costMultiplier(opt.Feasibility)
	return opt
}

// feasibility grades where the adjusted value lands relative to the comfort
// band: inside is easy, within margin of the edge is moderate, beyond is
// difficult.
func feasibility(value, lo, hi, margin float64) Feasibility {
	if value >= lo && value <= hi {
		return FeasibilityEasy
	}
	if value >= lo-margin && value <= hi+margin {
		return FeasibilityModerate
	}
	return FeasibilityDifficult
}

// costMultiplier scales the base energy estimate by execution difficulty:
// options that push a variable out of its comfortable band cost more to
// hold there.
func costMultiplier(f Feasibility) float64 {
	switch f {
	case FeasibilityModerate:
		return 1.5
	case FeasibilityDifficult:
		return 2.5
	default:
		return 1.0
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
