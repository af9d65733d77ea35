package domain

import (
	"math"
	"time"
)

// Location is a WGS-84 query point.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ThreatReport is the complete envelope returned by the threat analysis
// pipeline: the inputs that went in, the derived behavior, and the verdict.
type ThreatReport struct {
	Location         Location            `json:"location"`
	LiveFeatures     FeatureSet          `json:"live_features"`
	ROSMPerMin       float64             `json:"ros_prediction_m_per_min"`
	FireBehavior     FireBehaviorMetrics `json:"fire_behavior"`
	ThreatAssessment ThreatAssessment    `json:"threat_assessment"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// NewThreatReport assembles a report and stamps it with the domain clock.
func NewThreatReport(loc Location, f FeatureSet, ros RateOfSpread, m FireBehaviorMetrics, a ThreatAssessment) ThreatReport {
	return ThreatReport{
		Location:         loc,
		LiveFeatures:     f,
		ROSMPerMin:       float64(ros),
		FireBehavior:     m,
		ThreatAssessment: a,
		GeneratedAt:      clock.Now().UTC(),
	}
}

// WeatherConditions is the observed-weather subset reported by the
// classification path.
type WeatherConditions struct {
	TemperatureC            float64 `json:"temperature_celsius"`
	RelativeHumidityPct     float64 `json:"relative_humidity_percent"`
	WindSpeedMS             float64 `json:"wind_speed_mps"`
	PrecipitationMM24h      float64 `json:"precipitation_mm_24h"`
	VaporPressureDeficitKPa float64 `json:"vapor_pressure_deficit_kpa"`
}

// LightningActivity summarizes recent strikes near the query point.
type LightningActivity struct {
	Detected       bool `json:"detected"`
	StrikeCount24h int  `json:"strike_count_24h"`
}

// RiskPrediction is the envelope returned by the classification path.
type RiskPrediction struct {
	Timestamp time.Time         `json:"timestamp"`
	Location  Location          `json:"location"`
	Weather   WeatherConditions `json:"weather_conditions"`
	Lightning LightningActivity `json:"lightning_activity"`

	FireRiskPercentage float64   `json:"fire_risk_percentage"`
	RiskLevel          RiskLevel `json:"risk_level"`
	FireExpected       bool      `json:"fire_expected"`
}

// NewRiskPrediction assembles a prediction from a classifier probability.
// FireExpected follows the classifier's 0.5 decision boundary.
func NewRiskPrediction(loc Location, w WeatherConditions, l LightningActivity, probability float64) RiskPrediction {
	p := clamp(probability, 0, 1)
	return RiskPrediction{
		Timestamp:          clock.Now().UTC(),
		Location:           loc,
		Weather:            w,
		Lightning:          l,
		FireRiskPercentage: math.Round(p*10000) / 100,
		RiskLevel:          ClassifyRisk(p),
		FireExpected:       p >= 0.5,
	}
}
