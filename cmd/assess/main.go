// Command assess runs a single wildfire assessment from the command line
// and prints a human-readable report, using the same configuration as the
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/wildfire-threat-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/wildfire-threat-service/internal/adapter/xweather"
	"github.com/couchcryptid/wildfire-threat-service/internal/assess"
	"github.com/couchcryptid/wildfire-threat-service/internal/config"
	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
	"github.com/couchcryptid/wildfire-threat-service/internal/model"
	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
	"github.com/couchcryptid/wildfire-threat-service/internal/provider"
)

func main() {
	lat := flag.Float64("lat", 0, "latitude of the assessment point")
	lon := flag.Float64("lon", 0, "longitude of the assessment point")
	mode := flag.String("mode", "threat", "assessment mode: threat or risk")
	flag.Parse()

	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		fmt.Fprintln(os.Stderr, "lat must be within [-90, 90] and lon within [-180, 180]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := observability.NewLogger("error", cfg.LogFormat)
	metrics := observability.NewMetricsForTesting()

	calibration := domain.DefaultCalibration()
	if cfg.CalibrationPath != "" {
		if calibration, err = domain.LoadCalibration(cfg.CalibrationPath); err != nil {
			fmt.Fprintln(os.Stderr, "failed to load calibration:", err)
			os.Exit(1)
		}
	}

	var spread assess.SpreadPredictor
	if cfg.SpreadModelPath != "" {
		m, err := model.LoadSpreadModel(cfg.SpreadModelPath, cfg.ONNXLibDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to load spread model:", err)
			os.Exit(1)
		}
		defer m.Close()
		spread = m
	}

	var occurrence assess.OccurrencePredictor
	if cfg.OccurrenceModelPath != "" {
		m, err := model.LoadOccurrenceModel(cfg.OccurrenceModelPath, cfg.ONNXLibDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to load occurrence model:", err)
			os.Exit(1)
		}
		defer m.Close()
		occurrence = m
	}

	weather := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.WeatherTimeout, cfg.WeatherRateLimitRPS, logger)

	var lightning domain.LightningSource
	if cfg.XweatherEnabled {
		lightning = xweather.NewClient(cfg.XweatherClientID, cfg.XweatherClientSecret, cfg.WeatherTimeout, logger)
	}

	terrain := provider.TerrainDefaults{
		NDVI:            cfg.TerrainNDVI,
		NDMI:            cfg.TerrainNDMI,
		SlopePct:        cfg.TerrainSlopePct,
		AspectDeg:       cfg.TerrainAspectDeg,
		FuelMoisturePct: cfg.TerrainFuelMoisture,
	}
	features := provider.NewFeatureService(weather, lightning, terrain, logger)

	assessor := assess.New(features, spread, occurrence, nil, calibration, metrics, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch strings.ToLower(*mode) {
	case "threat":
		report, err := assessor.AnalyzeThreat(ctx, *lat, *lon)
		if err != nil {
			fmt.Fprintln(os.Stderr, "threat analysis failed:", err)
			os.Exit(1)
		}
		printThreatReport(report)
	case "risk":
		prediction, err := assessor.PredictRisk(ctx, *lat, *lon)
		if err != nil {
			fmt.Fprintln(os.Stderr, "risk prediction failed:", err)
			os.Exit(1)
		}
		printRiskPrediction(prediction)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q: want threat or risk\n", *mode)
		os.Exit(2)
	}
}

func printThreatReport(r domain.ThreatReport) {
	fmt.Printf("Wildfire threat analysis for (%.4f, %.4f) at %s\n\n",
		r.Location.Lat, r.Location.Lon, r.GeneratedAt.Format(time.RFC3339))

	f := r.LiveFeatures
	fmt.Println("Conditions:")
	fmt.Printf("  temperature        %.1f C\n", f.TemperatureC)
	fmt.Printf("  relative humidity  %.0f %%\n", f.RelativeHumidityPct)
	fmt.Printf("  wind speed         %.1f m/s\n", f.WindSpeedMS)
	fmt.Printf("  precipitation 24h  %.1f mm\n", f.PrecipitationMM)
	fmt.Printf("  VPD                %.2f kPa\n", f.VaporPressureDeficitKPa)
	fmt.Printf("  fire weather index %.1f\n", f.FireWeatherIndex)

	b := r.FireBehavior
	fmt.Println("\nFire behavior:")
	fmt.Printf("  rate of spread     %.2f m/min (effective %.2f)\n", r.ROSMPerMin, b.ROSEffectiveMPerMin)
	fmt.Printf("  fireline intensity %.0f kW/m\n", b.IntensityKWm)
	fmt.Printf("  flame length       %.2f m (%s severity)\n", b.FlameLengthM, b.SeverityClass)
	fmt.Printf("  crown fire         %.0f/100 (%s)\n", b.CrownFireScore, b.CrownFireClass)
	fmt.Printf("  spotting distance  %.2f km\n", b.SpottingDistanceKm)
	fmt.Printf("  containment        %s\n", b.Containment)

	a := r.ThreatAssessment
	fmt.Println("\nAssessment:")
	fmt.Printf("  threat level       %s (score %.2f)\n", a.ThreatLevel, a.ExpectedThreatScore)
	for _, concern := range a.KeyConcerns {
		fmt.Printf("  - %s\n", concern)
	}
	fmt.Printf("\n%s\n", a.Summary)
}

func printRiskPrediction(p domain.RiskPrediction) {
	fmt.Printf("Wildfire risk prediction for (%.4f, %.4f) at %s\n\n",
		p.Location.Lat, p.Location.Lon, p.Timestamp.Format(time.RFC3339))

	w := p.Weather
	fmt.Println("Conditions:")
	fmt.Printf("  temperature        %.1f C\n", w.TemperatureC)
	fmt.Printf("  relative humidity  %.0f %%\n", w.RelativeHumidityPct)
	fmt.Printf("  wind speed         %.1f m/s\n", w.WindSpeedMS)
	fmt.Printf("  precipitation 24h  %.1f mm\n", w.PrecipitationMM24h)
	if p.Lightning.Detected {
		fmt.Printf("  lightning          %d strikes in 24h\n", p.Lightning.StrikeCount24h)
	} else {
		fmt.Println("  lightning          none detected")
	}

	fmt.Println("\nPrediction:")
	fmt.Printf("  fire risk          %.2f %%\n", p.FireRiskPercentage)
	fmt.Printf("  risk level         %s\n", p.RiskLevel)
	fmt.Printf("  fire expected      %v\n", p.FireExpected)
}
