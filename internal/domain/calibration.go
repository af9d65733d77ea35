package domain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Calibration holds every tunable constant of the fire behavior engine.
// The monotonicity and clamping contracts of the formulas are invariant;
// the numbers themselves are calibration data and can be overridden from
// a YAML file per region or fuel model.
type Calibration struct {
	// Fuel load from NDVI: load = base + gain*ndvi, floored.
	FuelLoadBaseKgM2  float64 `yaml:"fuel_load_base_kg_m2"`
	FuelLoadNDVIGain  float64 `yaml:"fuel_load_ndvi_gain"`
	FuelLoadFloorKgM2 float64 `yaml:"fuel_load_floor_kg_m2"`

	// Live fuel moisture from vegetation indices, clamped to [0,100].
	MoistureBasePct     float64 `yaml:"moisture_base_pct"`
	MoistureNDMIGainPct float64 `yaml:"moisture_ndmi_gain_pct"`
	MoistureNDVIGainPct float64 `yaml:"moisture_ndvi_gain_pct"`

	// Terrain response.
	SlopeQuadraticGain float64 `yaml:"slope_quadratic_gain"`
	AspectPeakDeg      float64 `yaml:"aspect_peak_deg"`
	AspectAmplitude    float64 `yaml:"aspect_amplitude"`

	// Byram fireline intensity and flame length.
	HeatYieldKJKg    float64 `yaml:"heat_yield_kj_kg"`
	FlameLengthCoeff float64 `yaml:"flame_length_coeff"`
	FlameLengthExp   float64 `yaml:"flame_length_exp"`

	// Severity breakpoints on flame length, meters. Must be increasing.
	// SeverityIndex saturates at FlameExtremeM so index and class agree.
	FlameModerateM float64 `yaml:"flame_moderate_m"`
	FlameHighM     float64 `yaml:"flame_high_m"`
	FlameExtremeM  float64 `yaml:"flame_extreme_m"`

	// Crown fire score: weighted blend of intensity, wind, and greenness,
	// each normalized against its reference before weighting. Weights must
	// sum to 1 so the score saturates at exactly 100.
	CrownIntensityRefKWm float64 `yaml:"crown_intensity_ref_kw_m"`
	CrownWindRefMS       float64 `yaml:"crown_wind_ref_ms"`
	CrownIntensityWeight float64 `yaml:"crown_intensity_weight"`
	CrownWindWeight      float64 `yaml:"crown_wind_weight"`
	CrownGreennessWeight float64 `yaml:"crown_greenness_weight"`

	// Crown fire class breakpoints on the 0-100 score. Must be increasing.
	CrownModerateScore float64 `yaml:"crown_moderate_score"`
	CrownHighScore     float64 `yaml:"crown_high_score"`
	CrownExtremeScore  float64 `yaml:"crown_extreme_score"`

	// Spotting distance: km per (m/s of wind * m of flame).
	SpottingCoeffKm float64 `yaml:"spotting_coeff_km"`

	// Burn window and damage model.
	BurnWindowAreaKm2 float64 `yaml:"burn_window_area_km2"`
	DamageCostPerHaRs float64 `yaml:"damage_cost_per_ha_rs"`
	DefaultRoadDistKm float64 `yaml:"default_road_dist_km"`

	// Containment scoring thresholds.
	ContainSlopeModPct   float64 `yaml:"contain_slope_mod_pct"`
	ContainSlopeSteepPct float64 `yaml:"contain_slope_steep_pct"`
	ContainRoadNearKm    float64 `yaml:"contain_road_near_km"`
	ContainRoadFarKm     float64 `yaml:"contain_road_far_km"`

	// Expected threat blend weights. Must sum to 1.
	ThreatProbabilityWeight float64 `yaml:"threat_probability_weight"`
	ThreatSeverityWeight    float64 `yaml:"threat_severity_weight"`
}

// DefaultCalibration returns the constants the engine ships with. Severity
// breakpoints follow the standard flame-length suppression thresholds
// (hand tools below 1.2 m, equipment below 2.4 m, aircraft below 3.4 m);
// the rest were fitted against the reference model's training region.
func DefaultCalibration() Calibration {
	return Calibration{
		FuelLoadBaseKgM2:  1.2,
		FuelLoadNDVIGain:  2.8,
		FuelLoadFloorKgM2: 0.1,

		MoistureBasePct:     50,
		MoistureNDMIGainPct: 45,
		MoistureNDVIGainPct: 15,

		SlopeQuadraticGain: 4.0,
		AspectPeakDeg:      180,
		AspectAmplitude:    0.3,

		HeatYieldKJKg:    18000,
		FlameLengthCoeff: 0.0775,
		FlameLengthExp:   0.46,

		FlameModerateM: 1.2,
		FlameHighM:     2.4,
		FlameExtremeM:  3.4,

		CrownIntensityRefKWm: 10000,
		CrownWindRefMS:       20,
		CrownIntensityWeight: 0.5,
		CrownWindWeight:      0.3,
		CrownGreennessWeight: 0.2,

		CrownModerateScore: 25,
		CrownHighScore:     50,
		CrownExtremeScore:  75,

		SpottingCoeffKm: 0.075,

		BurnWindowAreaKm2: 5.0,
		DamageCostPerHaRs: 50000,
		DefaultRoadDistKm: 2.0,

		ContainSlopeModPct:   15,
		ContainSlopeSteepPct: 30,
		ContainRoadNearKm:    1,
		ContainRoadFarKm:     3,

		ThreatProbabilityWeight: 0.6,
		ThreatSeverityWeight:    0.4,
	}
}

// LoadCalibration reads YAML overrides on top of the defaults. Fields absent
// from the file keep their default value.
func LoadCalibration(path string) (Calibration, error) {
	cal := DefaultCalibration()

	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, fmt.Errorf("read calibration: %w", err)
	}
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return Calibration{}, fmt.Errorf("parse calibration: %w", err)
	}
	if err := cal.Validate(); err != nil {
		return Calibration{}, fmt.Errorf("calibration %s: %w", path, err)
	}
	return cal, nil
}

// Validate checks the structural constraints the formulas rely on.
func (c Calibration) Validate() error {
	if c.FuelLoadNDVIGain < 0 {
		return errors.New("fuel_load_ndvi_gain must be non-negative")
	}
	if c.FuelLoadFloorKgM2 < 0 {
		return errors.New("fuel_load_floor_kg_m2 must be non-negative")
	}
	if c.SlopeQuadraticGain < 0 {
		return errors.New("slope_quadratic_gain must be non-negative")
	}
	if c.AspectAmplitude < 0 {
		return errors.New("aspect_amplitude must be non-negative")
	}
	if c.HeatYieldKJKg <= 0 {
		return errors.New("heat_yield_kj_kg must be positive")
	}
	if c.FlameLengthCoeff <= 0 || c.FlameLengthExp <= 0 || c.FlameLengthExp >= 1 {
		return errors.New("flame length curve must be positive and concave (0 < exp < 1)")
	}
	if !(0 < c.FlameModerateM && c.FlameModerateM < c.FlameHighM && c.FlameHighM < c.FlameExtremeM) {
		return errors.New("flame length breakpoints must be positive and increasing")
	}
	if !(0 < c.CrownModerateScore && c.CrownModerateScore < c.CrownHighScore && c.CrownHighScore < c.CrownExtremeScore && c.CrownExtremeScore <= 100) {
		return errors.New("crown score breakpoints must be increasing within (0,100]")
	}
	if c.CrownIntensityRefKWm <= 0 || c.CrownWindRefMS <= 0 {
		return errors.New("crown references must be positive")
	}
	if sum := c.CrownIntensityWeight + c.CrownWindWeight + c.CrownGreennessWeight; !approxOne(sum) {
		return fmt.Errorf("crown weights must sum to 1, got %g", sum)
	}
	if c.SpottingCoeffKm < 0 {
		return errors.New("spotting_coeff_km must be non-negative")
	}
	if c.BurnWindowAreaKm2 <= 0 {
		return errors.New("burn_window_area_km2 must be positive")
	}
	if sum := c.ThreatProbabilityWeight + c.ThreatSeverityWeight; !approxOne(sum) {
		return fmt.Errorf("threat weights must sum to 1, got %g", sum)
	}
	if c.ThreatProbabilityWeight < 0 || c.ThreatSeverityWeight < 0 {
		return errors.New("threat weights must be non-negative")
	}
	return nil
}

func approxOne(v float64) bool {
	const eps = 1e-9
	return v > 1-eps && v < 1+eps
}
