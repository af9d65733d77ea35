// Package domain models wildfire behavior and threat for a single location.
//
// # Pipeline
//
// The core is a deterministic formula chain run once per query:
//
//	FeatureSet + RateOfSpread
//	  → fuel load, fuel moisture          (vegetation indices)
//	  → slope multiplier, aspect factor   (terrain)
//	  → effective ROS                     (base ROS × terrain, floored)
//	  → Byram intensity → flame length    (kW/m, meters)
//	  → severity index + class            (flame length breakpoints)
//	  → crown fire score + class          (intensity/wind/greenness blend)
//	  → spotting, burn window, damage, containment
//	  → occurrence probability, expected threat
//	  → ThreatAssessment                  (level, concerns, summary)
//
// Every function is pure and total over the physical domain: out-of-range
// inputs are clamped at FeatureSet construction, the ROS floor of 0.01 m/min
// removes divide-by-zero structurally, and every bucketing function covers
// the whole real line. Nothing in this package does I/O or holds state
// between calls, so assessments can run concurrently without coordination.
//
// # Units
//
//	rate of spread   m/min       fireline intensity   kW/m
//	fuel load        kg/m²       flame length         m
//	fuel moisture    % dry mass  spotting distance    km
//	wind speed       m/s         burn window          hours
//	slope            % grade     damage               ₹ (Rs)
//	aspect           ° from N
//
// # Severity breakpoints
//
// Severity follows the standard flame-length suppression thresholds:
//
//	< 1.2 m   Low       hand crews can attack the head directly
//	< 2.4 m   Moderate  equipment (dozers, engines) required
//	< 3.4 m   High      direct attack ineffective, aircraft needed
//	≥ 3.4 m   Extreme   uncontrollable head fire
//
// SeverityIndex saturates at the same 3.4 m breakpoint, so a severity index
// of 1.0 and the Extreme class always coincide.
//
// # Calibration vs. decision logic
//
// Physical constants (fuel curves, crown weights, breakpoints) live in
// [Calibration] and may be overridden from a YAML file; their monotonicity
// and clamping contracts are invariant. The threat level cutoffs
// (0.3/0.5/0.7 with class overrides), concern thresholds, and the five-tier
// risk bucketing in [ClassifyRisk] are fixed decision logic and are not
// calibrated.
package domain
