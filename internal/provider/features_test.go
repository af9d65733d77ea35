package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
)

type fakeWeather struct {
	obs   domain.WeatherObservation
	err   error
	calls int
}

func (f *fakeWeather) CurrentWeather(_ context.Context, _, _ float64) (domain.WeatherObservation, error) {
	f.calls++
	return f.obs, f.err
}

type fakeLightning struct {
	activity domain.LightningActivity
	err      error
}

func (f *fakeLightning) RecentActivity(_ context.Context, _, _ float64) (domain.LightningActivity, error) {
	return f.activity, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTerrain() TerrainDefaults {
	return TerrainDefaults{NDVI: 0.5, NDMI: 0.3, SlopePct: 10, AspectDeg: 180, FuelMoisturePct: 100}
}

func TestFeatureService_Fetch_Success(t *testing.T) {
	weather := &fakeWeather{
		obs: domain.WeatherObservation{
			Conditions: domain.WeatherConditions{
				TemperatureC:        34,
				RelativeHumidityPct: 20,
				WindSpeedMS:         8,
				PrecipitationMM24h:  0,
			},
			ElevationM: 450,
		},
	}
	lightning := &fakeLightning{activity: domain.LightningActivity{Detected: true, StrikeCount24h: 12}}

	svc := NewFeatureService(weather, lightning, testTerrain(), testLogger())
	snap, err := svc.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)

	assert.Equal(t, 34.0, snap.Features.TemperatureC)
	assert.Equal(t, 450.0, snap.Features.ElevationM)
	assert.Equal(t, 0.5, snap.Features.NDVI)
	assert.Equal(t, 10.0, snap.Features.SlopePct)

	// Derived fields come from the weather reading, not the caller.
	assert.InDelta(t, domain.DeriveVaporPressureDeficit(34, 20), snap.Features.VaporPressureDeficitKPa, 1e-9)
	assert.Greater(t, snap.Features.FireWeatherIndex, 0.0)
	assert.Equal(t, snap.Features.VaporPressureDeficitKPa, snap.Weather.VaporPressureDeficitKPa)

	assert.True(t, snap.Lightning.Detected)
	assert.Equal(t, 12, snap.Lightning.StrikeCount24h)
}

func TestFeatureService_Fetch_WeatherError(t *testing.T) {
	weather := &fakeWeather{err: errors.New("upstream down")}
	svc := NewFeatureService(weather, nil, testTerrain(), testLogger())

	_, err := svc.Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch weather")
}

func TestFeatureService_Fetch_LightningErrorDegrades(t *testing.T) {
	weather := &fakeWeather{obs: domain.WeatherObservation{}}
	lightning := &fakeLightning{err: errors.New("auth failure")}

	svc := NewFeatureService(weather, lightning, testTerrain(), testLogger())
	snap, err := svc.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	assert.False(t, snap.Lightning.Detected)
	assert.Zero(t, snap.Lightning.StrikeCount24h)
}

func TestFeatureService_Fetch_NoLightningSource(t *testing.T) {
	weather := &fakeWeather{obs: domain.WeatherObservation{}}
	svc := NewFeatureService(weather, nil, testTerrain(), testLogger())

	snap, err := svc.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	assert.False(t, snap.Lightning.Detected)
}

func TestCachedFetcher_HitAndMiss(t *testing.T) {
	weather := &fakeWeather{obs: domain.WeatherObservation{ElevationM: 100}}
	svc := NewFeatureService(weather, nil, testTerrain(), testLogger())
	cached := NewCachedFetcher(svc, 8, time.Minute, observability.NewMetricsForTesting())

	snap1, err := cached.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	snap2, err := cached.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)

	assert.Equal(t, 1, weather.calls)
	assert.Equal(t, snap1, snap2)
}

func TestCachedFetcher_NearbyCoordinatesShareEntry(t *testing.T) {
	weather := &fakeWeather{}
	svc := NewFeatureService(weather, nil, testTerrain(), testLogger())
	cached := NewCachedFetcher(svc, 8, time.Minute, observability.NewMetricsForTesting())

	_, err := cached.Fetch(context.Background(), 28.60001, 77.20001)
	require.NoError(t, err)
	_, err = cached.Fetch(context.Background(), 28.60004, 77.20004)
	require.NoError(t, err)

	assert.Equal(t, 1, weather.calls)
}

func TestCachedFetcher_ErrorNotCached(t *testing.T) {
	weather := &fakeWeather{err: errors.New("transient")}
	svc := NewFeatureService(weather, nil, testTerrain(), testLogger())
	cached := NewCachedFetcher(svc, 8, time.Minute, observability.NewMetricsForTesting())

	_, err := cached.Fetch(context.Background(), 28.6, 77.2)
	require.Error(t, err)

	weather.err = nil
	_, err = cached.Fetch(context.Background(), 28.6, 77.2)
	require.NoError(t, err)
	assert.Equal(t, 2, weather.calls)
}
