// Package provider assembles model-ready feature snapshots from live
// weather, lightning, and configured terrain data.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// TerrainDefaults carries the static terrain and vegetation values used
// for every location until a remote-sensing feed is wired in.
type TerrainDefaults struct {
	NDVI            float64
	NDMI            float64
	SlopePct        float64
	AspectDeg       float64
	FuelMoisturePct float64
}

// Snapshot is everything the assessment pipeline needs for one location:
// the packed feature set for the spread model, the raw weather conditions
// for the occurrence classifier, and recent lightning activity.
type Snapshot struct {
	Features  domain.FeatureSet
	Weather   domain.WeatherConditions
	Lightning domain.LightningActivity
}

// FeatureService implements snapshot assembly over a weather source and
// an optional lightning source.
type FeatureService struct {
	weather   domain.WeatherSource
	lightning domain.LightningSource
	terrain   TerrainDefaults
	logger    *slog.Logger
}

// NewFeatureService creates a FeatureService. lightning may be nil, in
// which case snapshots report no strike activity.
func NewFeatureService(weather domain.WeatherSource, lightning domain.LightningSource, terrain TerrainDefaults, logger *slog.Logger) *FeatureService {
	return &FeatureService{
		weather:   weather,
		lightning: lightning,
		terrain:   terrain,
		logger:    logger,
	}
}

// Fetch assembles a Snapshot for the coordinate. Weather failures abort
// the fetch; lightning failures are logged and degrade to "no activity"
// so a flaky strike feed cannot take down assessments.
func (s *FeatureService) Fetch(ctx context.Context, lat, lon float64) (Snapshot, error) {
	obs, err := s.weather.CurrentWeather(ctx, lat, lon)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch weather: %w", err)
	}

	cond := obs.Conditions
	cond.VaporPressureDeficitKPa = domain.DeriveVaporPressureDeficit(cond.TemperatureC, cond.RelativeHumidityPct)

	var lightning domain.LightningActivity
	if s.lightning != nil {
		lightning, err = s.lightning.RecentActivity(ctx, lat, lon)
		if err != nil {
			s.logger.Warn("lightning lookup failed, assuming no activity",
				"lat", lat, "lon", lon, "error", err)
			lightning = domain.LightningActivity{}
		}
	}

	features := domain.NewFeatureSet(domain.FeatureSet{
		TemperatureC:            cond.TemperatureC,
		RelativeHumidityPct:     cond.RelativeHumidityPct,
		WindSpeedMS:             cond.WindSpeedMS,
		PrecipitationMM:         cond.PrecipitationMM24h,
		VaporPressureDeficitKPa: cond.VaporPressureDeficitKPa,
		FireWeatherIndex: domain.DeriveFireWeatherIndex(
			cond.TemperatureC, cond.RelativeHumidityPct, cond.WindSpeedMS, cond.PrecipitationMM24h),
		NDVI:                 s.terrain.NDVI,
		NDMI:                 s.terrain.NDMI,
		FuelMoistureProxyPct: s.terrain.FuelMoisturePct,
		ElevationM:           obs.ElevationM,
		SlopePct:             s.terrain.SlopePct,
		AspectDeg:            s.terrain.AspectDeg,
	})

	return Snapshot{
		Features:  features,
		Weather:   cond,
		Lightning: lightning,
	}, nil
}
