// Package assess orchestrates the two assessment pipelines: full threat
// analysis through the spread regressor and fire behavior engine, and
// binary risk classification through the occurrence model.
package assess

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
	"github.com/couchcryptid/wildfire-threat-service/internal/provider"
)

// FeatureProvider assembles the environmental snapshot for a coordinate.
type FeatureProvider interface {
	Fetch(ctx context.Context, lat, lon float64) (provider.Snapshot, error)
}

// SpreadPredictor produces a base rate of spread from live features.
type SpreadPredictor interface {
	PredictROS(ctx context.Context, f domain.FeatureSet) (domain.RateOfSpread, error)
}

// OccurrencePredictor produces a fire occurrence probability from weather
// conditions and recent lightning.
type OccurrencePredictor interface {
	PredictProbability(ctx context.Context, w domain.WeatherConditions, lightning bool) (float64, error)
}

// Publisher delivers completed threat reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, report domain.ThreatReport) error
}

// Assessor runs assessments against the configured models. Either model
// may be absent; the corresponding mode then returns ErrModeUnavailable.
type Assessor struct {
	features    FeatureProvider
	spread      SpreadPredictor
	occurrence  OccurrencePredictor
	publisher   Publisher
	calibration domain.Calibration
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// New creates an Assessor. spread, occurrence, and publisher may be nil.
func New(
	features FeatureProvider,
	spread SpreadPredictor,
	occurrence OccurrencePredictor,
	publisher Publisher,
	calibration domain.Calibration,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Assessor {
	return &Assessor{
		features:    features,
		spread:      spread,
		occurrence:  occurrence,
		publisher:   publisher,
		calibration: calibration,
		metrics:     metrics,
		logger:      logger,
	}
}

// CheckReadiness reports whether the service can serve any assessment
// traffic at all.
func (a *Assessor) CheckReadiness(_ context.Context) error {
	if a.spread == nil && a.occurrence == nil {
		return errNoModels
	}
	return nil
}

// ThreatEnabled reports whether the threat analysis mode is configured.
func (a *Assessor) ThreatEnabled() bool { return a.spread != nil }

// RiskEnabled reports whether the risk classification mode is configured.
func (a *Assessor) RiskEnabled() bool { return a.occurrence != nil }

// AnalyzeThreat runs the full pipeline for a coordinate: live features,
// spread model, fire behavior engine, threat aggregation. A configured
// publisher receives the finished report best-effort; publish failures
// are logged and counted, never surfaced to the caller.
func (a *Assessor) AnalyzeThreat(ctx context.Context, lat, lon float64) (domain.ThreatReport, error) {
	if a.spread == nil {
		a.metrics.AssessmentsTotal.WithLabelValues("threat", "error").Inc()
		return domain.ThreatReport{}, ErrModeUnavailable
	}

	snap, err := a.fetchSnapshot(ctx, lat, lon, "threat")
	if err != nil {
		return domain.ThreatReport{}, err
	}

	start := time.Now()
	ros, err := a.spread.PredictROS(ctx, snap.Features)
	a.metrics.StageDuration.WithLabelValues(StageSpread).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.AssessmentsTotal.WithLabelValues("threat", "error").Inc()
		return domain.ThreatReport{}, &StageError{Stage: StageSpread, Err: err}
	}

	behavior := a.calibration.ComputeFireBehavior(snap.Features, ros)
	assessment := domain.AssessThreat(behavior)
	report := domain.NewThreatReport(domain.Location{Lat: lat, Lon: lon}, snap.Features, ros, behavior, assessment)

	a.metrics.AssessmentsTotal.WithLabelValues("threat", "success").Inc()
	a.metrics.ThreatLevels.WithLabelValues(assessment.ThreatLevel.String()).Inc()
	a.logger.Info("threat analysis complete",
		"lat", lat, "lon", lon,
		"threat_level", assessment.ThreatLevel.String(),
		"ros_m_per_min", report.ROSMPerMin)

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, report); err != nil {
			a.metrics.PublishErrors.Inc()
			a.logger.Error("report publish failed", "error", err)
		}
	}

	return report, nil
}

// PredictRisk runs the binary classification pipeline for a coordinate.
func (a *Assessor) PredictRisk(ctx context.Context, lat, lon float64) (domain.RiskPrediction, error) {
	if a.occurrence == nil {
		a.metrics.AssessmentsTotal.WithLabelValues("risk", "error").Inc()
		return domain.RiskPrediction{}, ErrModeUnavailable
	}

	snap, err := a.fetchSnapshot(ctx, lat, lon, "risk")
	if err != nil {
		return domain.RiskPrediction{}, err
	}

	start := time.Now()
	probability, err := a.occurrence.PredictProbability(ctx, snap.Weather, snap.Lightning.Detected)
	a.metrics.StageDuration.WithLabelValues(StageClassifier).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.AssessmentsTotal.WithLabelValues("risk", "error").Inc()
		return domain.RiskPrediction{}, &StageError{Stage: StageClassifier, Err: err}
	}

	prediction := domain.NewRiskPrediction(domain.Location{Lat: lat, Lon: lon}, snap.Weather, snap.Lightning, probability)

	a.metrics.AssessmentsTotal.WithLabelValues("risk", "success").Inc()
	a.metrics.RiskLevels.WithLabelValues(prediction.RiskLevel.String()).Inc()
	a.logger.Info("risk prediction complete",
		"lat", lat, "lon", lon,
		"risk_level", prediction.RiskLevel.String(),
		"fire_risk_pct", prediction.FireRiskPercentage)

	return prediction, nil
}

func (a *Assessor) fetchSnapshot(ctx context.Context, lat, lon float64, mode string) (provider.Snapshot, error) {
	start := time.Now()
	snap, err := a.features.Fetch(ctx, lat, lon)
	a.metrics.StageDuration.WithLabelValues(StageFeatures).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.AssessmentsTotal.WithLabelValues(mode, "error").Inc()
		return provider.Snapshot{}, &StageError{Stage: StageFeatures, Err: err}
	}
	return snap, nil
}
