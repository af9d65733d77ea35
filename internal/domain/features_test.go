package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFeatureSetClamping(t *testing.T) {
	t.Run("humidity and moisture clamped to [0,100]", func(t *testing.T) {
		f := NewFeatureSet(FeatureSet{RelativeHumidityPct: 130, FuelMoistureProxyPct: -5})
		assert.Equal(t, 100.0, f.RelativeHumidityPct)
		assert.Equal(t, 0.0, f.FuelMoistureProxyPct)
	})

	t.Run("negative rates floored at zero", func(t *testing.T) {
		f := NewFeatureSet(FeatureSet{
			WindSpeedMS:             -3,
			PrecipitationMM:         -1,
			VaporPressureDeficitKPa: -0.5,
			FireWeatherIndex:        -2,
		})
		assert.Equal(t, 0.0, f.WindSpeedMS)
		assert.Equal(t, 0.0, f.PrecipitationMM)
		assert.Equal(t, 0.0, f.VaporPressureDeficitKPa)
		assert.Equal(t, 0.0, f.FireWeatherIndex)
	})

	t.Run("vegetation indices clamped to [-1,1]", func(t *testing.T) {
		f := NewFeatureSet(FeatureSet{NDVI: 1.4, NDMI: -2})
		assert.Equal(t, 1.0, f.NDVI)
		assert.Equal(t, -1.0, f.NDMI)
	})

	t.Run("slope magnitude, aspect wrapped", func(t *testing.T) {
		f := NewFeatureSet(FeatureSet{SlopePct: -20, AspectDeg: 540})
		assert.Equal(t, 20.0, f.SlopePct)
		assert.Equal(t, 180.0, f.AspectDeg)

		f = NewFeatureSet(FeatureSet{AspectDeg: -90})
		assert.Equal(t, 270.0, f.AspectDeg)

		f = NewFeatureSet(FeatureSet{AspectDeg: 360})
		assert.Equal(t, 0.0, f.AspectDeg)
	})

	t.Run("in-range values pass through unchanged", func(t *testing.T) {
		in := testFeatures()
		assert.Equal(t, in, NewFeatureSet(in))
	})
}

func TestNewRateOfSpread(t *testing.T) {
	assert.Equal(t, RateOfSpread(2.5), NewRateOfSpread(2.5))
	assert.Equal(t, RateOfSpread(MinRateOfSpread), NewRateOfSpread(0))
	assert.Equal(t, RateOfSpread(MinRateOfSpread), NewRateOfSpread(-4))
	nan := 0.0
	nan /= nan
	assert.Equal(t, RateOfSpread(MinRateOfSpread), NewRateOfSpread(nan))
}

func TestDeriveVaporPressureDeficit(t *testing.T) {
	t.Run("tetens reference point", func(t *testing.T) {
		// 25°C, 50% RH: SVP ≈ 3.167 kPa, VPD ≈ 1.584 kPa.
		assert.InDelta(t, 1.584, DeriveVaporPressureDeficit(25, 50), 0.01)
	})

	t.Run("saturated air has zero deficit", func(t *testing.T) {
		assert.Equal(t, 0.0, DeriveVaporPressureDeficit(25, 100))
	})

	t.Run("never negative even with bad humidity", func(t *testing.T) {
		assert.GreaterOrEqual(t, DeriveVaporPressureDeficit(25, 140), 0.0)
	})
}

func TestDeriveFireWeatherIndex(t *testing.T) {
	t.Run("hot dry windy scores higher than cool damp calm", func(t *testing.T) {
		hot := DeriveFireWeatherIndex(38, 15, 12, 0)
		cool := DeriveFireWeatherIndex(12, 80, 2, 0)
		assert.Greater(t, hot, cool)
	})

	t.Run("rain suppresses the index", func(t *testing.T) {
		dry := DeriveFireWeatherIndex(30, 30, 8, 0)
		wet := DeriveFireWeatherIndex(30, 30, 8, 25)
		assert.Less(t, wet, dry)
	})

	t.Run("never negative", func(t *testing.T) {
		assert.GreaterOrEqual(t, DeriveFireWeatherIndex(-10, 100, 0, 50), 0.0)
	})
}
