package domain

import (
	"encoding/json"
	"math"
)

// SeverityClass buckets flame length into four suppression-oriented levels.
type SeverityClass int

const (
	SeverityLow SeverityClass = iota
	SeverityModerate
	SeverityHigh
	SeverityExtreme
)

func (s SeverityClass) String() string {
	switch s {
	case SeverityModerate:
		return "Moderate"
	case SeverityHigh:
		return "High"
	case SeverityExtreme:
		return "Extreme"
	default:
		return "Low"
	}
}

func (s SeverityClass) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// CrownFireClass buckets the 0-100 crown fire score.
type CrownFireClass int

const (
	CrownLow CrownFireClass = iota
	CrownModerate
	CrownHigh
	CrownExtreme
)

func (c CrownFireClass) String() string {
	switch c {
	case CrownModerate:
		return "Moderate"
	case CrownHigh:
		return "High"
	case CrownExtreme:
		return "Extreme"
	default:
		return "Low"
	}
}

func (c CrownFireClass) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// Containment grades how hard a fire would be to suppress.
type Containment int

const (
	ContainEasy Containment = iota
	ContainModerate
	ContainHard
	ContainVeryDifficult
)

func (c Containment) String() string {
	switch c {
	case ContainModerate:
		return "Moderate"
	case ContainHard:
		return "Hard"
	case ContainVeryDifficult:
		return "Very difficult"
	default:
		return "Easy"
	}
}

func (c Containment) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// FireBehaviorMetrics is the full derived picture of how a fire would behave
// at a location, computed once from a FeatureSet and a predicted ROS.
type FireBehaviorMetrics struct {
	ROSBaseMPerMin      float64        `json:"ros_base_m_per_min"`
	ROSEffectiveMPerMin float64        `json:"ros_effective_m_per_min"`
	SlopeMultiplier     float64        `json:"slope_multiplier"`
	AspectFactor        float64        `json:"aspect_factor"`
	FuelLoadKgM2        float64        `json:"fuel_load_kg_m2"`
	FuelMoisturePct     float64        `json:"fuel_moisture_pct"`
	IntensityKWm        float64        `json:"intensity_kw_per_m"`
	FlameLengthM        float64        `json:"flame_length_m"`
	SeverityIndex       float64        `json:"severity_index"`
	SeverityClass       SeverityClass  `json:"severity_class"`
	CrownFireScore      float64        `json:"crown_fire_score"`
	CrownFireClass      CrownFireClass `json:"crown_fire_class"`
	SpottingDistanceKm  float64        `json:"spotting_distance_km"`
	TimeToBurnHours     float64        `json:"time_to_burn_hours"`
	DamageEstimateRs    float64        `json:"damage_estimate_rs"`
	Containment         Containment    `json:"containment_difficulty"`

	OccurrenceProbability float64 `json:"occurrence_probability"`
	ExpectedThreat        float64 `json:"expected_threat"`
}

// ComputeFireBehavior runs the full formula chain. It is pure: the same
// inputs always produce the same metrics.
func (c Calibration) ComputeFireBehavior(f FeatureSet, ros RateOfSpread) FireBehaviorMetrics {
	fuelLoad := c.FuelLoadFromNDVI(f.NDVI)
	fuelMoisture := c.FuelMoistureFromIndices(f.NDVI, f.NDMI)

	slopeMult := c.SlopeMultiplier(f.SlopePct)
	aspectFact := c.AspectFactor(f.AspectDeg)
	rosEff := c.EffectiveROS(float64(ros), f.SlopePct, f.AspectDeg)

	intensity := c.ByramIntensity(rosEff, fuelLoad)
	flame := c.FlameLength(intensity)
	sevIdx := c.SeverityIndex(flame)
	sevCls := c.SeverityClass(flame)

	crownScore := c.CrownFireScore(intensity, f.WindSpeedMS, f.NDVI)
	crownCls := c.CrownFireClass(crownScore)

	spotting := c.SpottingDistanceKm(f.WindSpeedMS, flame)
	burnHours := c.TimeToBurnWindowHours(rosEff, c.BurnWindowAreaKm2)
	damage := c.DamageInWindowRs(c.DamageCostPerHaRs, c.BurnWindowAreaKm2)
	contain := c.ContainmentDifficulty(flame, f.SlopePct, c.DefaultRoadDistKm)

	occurrence := math.Min(1.0, sevIdx*(crownScore/100))
	expected := c.ExpectedThreat(occurrence, sevIdx)

	return FireBehaviorMetrics{
		ROSBaseMPerMin:      float64(ros),
		ROSEffectiveMPerMin: rosEff,
		SlopeMultiplier:     slopeMult,
		AspectFactor:        aspectFact,
		FuelLoadKgM2:        fuelLoad,
		FuelMoisturePct:     fuelMoisture,
		IntensityKWm:        intensity,
		FlameLengthM:        flame,
		SeverityIndex:       sevIdx,
		SeverityClass:       sevCls,
		CrownFireScore:      crownScore,
		CrownFireClass:      crownCls,
		SpottingDistanceKm:  spotting,
		TimeToBurnHours:     burnHours,
		DamageEstimateRs:    damage,
		Containment:         contain,

		OccurrenceProbability: occurrence,
		ExpectedThreat:        expected,
	}
}

// FuelLoadFromNDVI maps vegetation greenness to fuel mass per unit area.
// Linear in NDVI with a non-negative floor, so barren terrain (negative
// NDVI) still carries the minimum residual fuel rather than a negative load.
func (c Calibration) FuelLoadFromNDVI(ndvi float64) float64 {
	load := c.FuelLoadBaseKgM2 + c.FuelLoadNDVIGain*clamp(ndvi, -1, 1)
	return math.Max(c.FuelLoadFloorKgM2, load)
}

// FuelMoistureFromIndices estimates live fuel moisture percent from NDVI and
// NDMI. NDMI carries most of the signal; NDVI corrects for canopy density.
func (c Calibration) FuelMoistureFromIndices(ndvi, ndmi float64) float64 {
	pct := c.MoistureBasePct +
		c.MoistureNDMIGainPct*clamp(ndmi, -1, 1) +
		c.MoistureNDVIGainPct*clamp(ndvi, -1, 1)
	return clamp(pct, 0, 100)
}

// SlopeMultiplier models spread acceleration on slope. Quadratic in slope
// fraction, always >= 1, and sign-independent: direction is the aspect
// factor's job.
func (c Calibration) SlopeMultiplier(slopePct float64) float64 {
	frac := math.Abs(slopePct) / 100
	return 1 + c.SlopeQuadraticGain*frac*frac
}

// AspectFactor is a cosine response over the compass circle peaking at the
// calibrated peak aspect (south-facing by default, the driest exposure in
// the northern hemisphere). Periodic: f(a) == f(a+360).
func (c Calibration) AspectFactor(aspectDeg float64) float64 {
	rad := (wrapDegrees(aspectDeg) - c.AspectPeakDeg) * math.Pi / 180
	return 1 + c.AspectAmplitude*(1+math.Cos(rad))/2
}

// EffectiveROS applies the terrain multipliers to the base spread rate and
// re-applies the ROS floor.
func (c Calibration) EffectiveROS(rosBase, slopePct, aspectDeg float64) float64 {
	eff := rosBase * c.SlopeMultiplier(slopePct) * c.AspectFactor(aspectDeg)
	return math.Max(MinRateOfSpread, eff)
}

// ByramIntensity is the fireline intensity I = H * w * r with the spread
// rate converted from m/min to m/s, giving kW per meter of front.
// Negative inputs are treated as zero.
func (c Calibration) ByramIntensity(rosMPerMin, fuelLoadKgM2 float64) float64 {
	r := math.Max(0, rosMPerMin) / 60
	w := math.Max(0, fuelLoadKgM2)
	return c.HeatYieldKJKg * w * r
}

// FlameLength is Byram's empirical flame length L = a * I^b, meters.
func (c Calibration) FlameLength(intensityKWm float64) float64 {
	if intensityKWm <= 0 {
		return 0
	}
	return c.FlameLengthCoeff * math.Pow(intensityKWm, c.FlameLengthExp)
}

// SeverityIndex maps flame length onto [0,1], saturating at the Extreme
// breakpoint so the index and SeverityClass agree by construction: the
// index reaches 1 exactly where the class becomes Extreme.
func (c Calibration) SeverityIndex(flameLengthM float64) float64 {
	return clamp(flameLengthM/c.FlameExtremeM, 0, 1)
}

// SeverityClass buckets flame length on the calibrated breakpoints.
func (c Calibration) SeverityClass(flameLengthM float64) SeverityClass {
	switch {
	case flameLengthM >= c.FlameExtremeM:
		return SeverityExtreme
	case flameLengthM >= c.FlameHighM:
		return SeverityHigh
	case flameLengthM >= c.FlameModerateM:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// CrownFireScore blends normalized intensity, wind, and canopy greenness
// into a 0-100 score. Each term saturates at its reference value and the
// weights sum to 1, so the score cannot exceed 100 or drop below 0.
func (c Calibration) CrownFireScore(intensityKWm, windMS, ndvi float64) float64 {
	intensityTerm := clamp(intensityKWm/c.CrownIntensityRefKWm, 0, 1)
	windTerm := clamp(windMS/c.CrownWindRefMS, 0, 1)
	greenTerm := clamp(ndvi, 0, 1)

	score := 100 * (c.CrownIntensityWeight*intensityTerm +
		c.CrownWindWeight*windTerm +
		c.CrownGreennessWeight*greenTerm)
	return clamp(score, 0, 100)
}

// CrownFireClass buckets the crown fire score on the calibrated breakpoints.
func (c Calibration) CrownFireClass(score float64) CrownFireClass {
	switch {
	case score >= c.CrownExtremeScore:
		return CrownExtreme
	case score >= c.CrownHighScore:
		return CrownHigh
	case score >= c.CrownModerateScore:
		return CrownModerate
	default:
		return CrownLow
	}
}

// SpottingDistanceKm estimates how far ahead of the front wind-borne embers
// can start new ignitions. Monotonic in both wind and flame length.
func (c Calibration) SpottingDistanceKm(windMS, flameLengthM float64) float64 {
	return c.SpottingCoeffKm * math.Max(0, windMS) * math.Max(0, flameLengthM)
}

// TimeToBurnWindowHours is the time for the front to cross the radius of a
// circular window of the given area. ROS is floored upstream, so the
// division is always defined.
func (c Calibration) TimeToBurnWindowHours(rosMPerMin, areaKm2 float64) float64 {
	ros := math.Max(MinRateOfSpread, rosMPerMin)
	radiusM := math.Sqrt(math.Max(0, areaKm2)/math.Pi) * 1000
	return radiusM / ros / 60
}

// DamageInWindowRs values the burn window: hectares burned times unit cost.
func (c Calibration) DamageInWindowRs(costPerHectareRs, areaKm2 float64) float64 {
	hectares := math.Max(0, areaKm2) * 100
	return hectares * math.Max(0, costPerHectareRs)
}

// ContainmentDifficulty scores flame length, slope, and road access on a
// 0-2 scale each and buckets the sum. Total over all inputs: every
// combination lands in exactly one bucket.
func (c Calibration) ContainmentDifficulty(flameLengthM, slopePct, roadDistKm float64) Containment {
	points := 0

	switch {
	case flameLengthM >= c.FlameExtremeM:
		points += 2
	case flameLengthM >= c.FlameModerateM:
		points++
	}

	switch {
	case slopePct >= c.ContainSlopeSteepPct:
		points += 2
	case slopePct >= c.ContainSlopeModPct:
		points++
	}

	switch {
	case roadDistKm >= c.ContainRoadFarKm:
		points += 2
	case roadDistKm >= c.ContainRoadNearKm:
		points++
	}

	switch {
	case points <= 1:
		return ContainEasy
	case points <= 3:
		return ContainModerate
	case points <= 5:
		return ContainHard
	default:
		return ContainVeryDifficult
	}
}

// ExpectedThreat blends occurrence probability and severity magnitude into
// a single [0,1] score, monotonic in both inputs.
func (c Calibration) ExpectedThreat(occurrenceProb, severityIndex float64) float64 {
	p := clamp(occurrenceProb, 0, 1)
	s := clamp(severityIndex, 0, 1)
	return c.ThreatProbabilityWeight*p + c.ThreatSeverityWeight*s
}
