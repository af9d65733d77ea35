package domain

import "math"

// MinRateOfSpread is the mandatory floor for any rate-of-spread value, in
// m/min. Every formula downstream of the spread model divides or scales by
// ROS, so the floor is applied once at construction and again after terrain
// adjustment, eliminating division-by-zero as an error class.
const MinRateOfSpread = 0.01

// FeatureSet is the environmental snapshot for one location at one moment.
// Values are clamped into their physical domains by NewFeatureSet and never
// mutated afterwards; the engine can assume every field is in range.
type FeatureSet struct {
	TemperatureC            float64 `json:"temperature_c"`
	RelativeHumidityPct     float64 `json:"relative_humidity_pct"`
	WindSpeedMS             float64 `json:"wind_speed_ms"`
	PrecipitationMM         float64 `json:"precipitation_mm"`
	VaporPressureDeficitKPa float64 `json:"vapor_pressure_deficit_kpa"`
	FireWeatherIndex        float64 `json:"fire_weather_index"`
	NDVI                    float64 `json:"ndvi"`
	NDMI                    float64 `json:"ndmi"`
	FuelMoistureProxyPct    float64 `json:"fuel_moisture_proxy_pct"`
	ElevationM              float64 `json:"elevation_m"`
	SlopePct                float64 `json:"slope_pct"`
	AspectDeg               float64 `json:"aspect_deg"`
}

// NewFeatureSet builds a FeatureSet, clamping every field into its physical
// domain: humidity and fuel moisture into [0,100], wind/precip/VPD/FWI/slope
// floored at 0, NDVI and NDMI into [-1,1], aspect wrapped into [0,360).
// Clamping here rather than per-formula keeps all downstream metrics
// consistent with each other.
func NewFeatureSet(f FeatureSet) FeatureSet {
	f.RelativeHumidityPct = clamp(f.RelativeHumidityPct, 0, 100)
	f.WindSpeedMS = math.Max(0, f.WindSpeedMS)
	f.PrecipitationMM = math.Max(0, f.PrecipitationMM)
	f.VaporPressureDeficitKPa = math.Max(0, f.VaporPressureDeficitKPa)
	f.FireWeatherIndex = math.Max(0, f.FireWeatherIndex)
	f.NDVI = clamp(f.NDVI, -1, 1)
	f.NDMI = clamp(f.NDMI, -1, 1)
	f.FuelMoistureProxyPct = clamp(f.FuelMoistureProxyPct, 0, 100)
	f.SlopePct = math.Abs(f.SlopePct)
	f.AspectDeg = wrapDegrees(f.AspectDeg)
	return f
}

// RateOfSpread is a predicted fire-front advance speed in m/min.
type RateOfSpread float64

// NewRateOfSpread floors a raw model output at MinRateOfSpread.
func NewRateOfSpread(v float64) RateOfSpread {
	if v < MinRateOfSpread || math.IsNaN(v) {
		return MinRateOfSpread
	}
	return RateOfSpread(v)
}

// DeriveVaporPressureDeficit computes VPD in kPa from air temperature and
// relative humidity using the Tetens saturation vapor pressure equation.
func DeriveVaporPressureDeficit(tempC, relHumidityPct float64) float64 {
	svp := 0.6108 * math.Exp(17.27*tempC/(tempC+237.3))
	vpd := svp * (1 - clamp(relHumidityPct, 0, 100)/100)
	return math.Max(0, vpd)
}

// DeriveFireWeatherIndex is a dryness-times-wind proxy used when no upstream
// fire weather index is available: warm, dry, windy days score high and a wet
// 24 hours suppresses the index toward zero. It is not the Canadian FWI, only
// a stand-in on a comparable 0-30+ scale.
func DeriveFireWeatherIndex(tempC, relHumidityPct, windMS, precipMM float64) float64 {
	dryness := math.Max(0, tempC/30) * (1 - clamp(relHumidityPct, 0, 100)/100)
	wind := 1 + math.Max(0, windMS)/10
	wetting := 1 / (1 + math.Max(0, precipMM)/5)
	return math.Max(0, 20*dryness*wind*wetting)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapDegrees maps any angle onto [0,360).
func wrapDegrees(deg float64) float64 {
	wrapped := math.Mod(deg, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}
