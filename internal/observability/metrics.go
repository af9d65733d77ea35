package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment service.
type Metrics struct {
	AssessmentsTotal *prometheus.CounterVec   // labels: mode={threat,risk}, outcome={success,error}
	StageDuration    *prometheus.HistogramVec // labels: stage={features,lightning,spread_model,classifier}
	ThreatLevels     *prometheus.CounterVec   // labels: level={LOW,MODERATE,HIGH,EXTREME}
	RiskLevels       *prometheus.CounterVec   // labels: level={Low,...,Extreme}
	FeatureCache     *prometheus.CounterVec   // labels: result={hit,miss}
	ModelLoaded      *prometheus.GaugeVec     // labels: model={spread,occurrence}
	LightningEnabled prometheus.Gauge
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "assessments_total",
			Help:      "Completed assessment requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wildfire",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each collaborator stage of an assessment.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),
		ThreatLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "threat_level_total",
			Help:      "Threat analysis results by assessed level.",
		}, []string{"level"}),
		RiskLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "risk_level_total",
			Help:      "Risk predictions by classified level.",
		}, []string{"level"}),
		FeatureCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "feature_cache_total",
			Help:      "Feature cache lookups by result.",
		}, []string{"result"}),
		ModelLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wildfire",
			Name:      "model_loaded",
			Help:      "1 when the named ONNX model is loaded, 0 otherwise.",
		}, []string{"model"}),
		LightningEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire",
			Name:      "lightning_enabled",
			Help:      "1 when the lightning provider is enabled, 0 otherwise.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "publish_errors_total",
			Help:      "Failed report publications to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.StageDuration,
		m.ThreatLevels,
		m.RiskLevels,
		m.FeatureCache,
		m.ModelLoaded,
		m.LightningEnabled,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "assessments_total"}, []string{"mode", "outcome"}),
		StageDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "wildfire", Name: "stage_duration_seconds"}, []string{"stage"}),
		ThreatLevels:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "threat_level_total"}, []string{"level"}),
		RiskLevels:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "risk_level_total"}, []string{"level"}),
		FeatureCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "feature_cache_total"}, []string{"result"}),
		ModelLoaded:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "wildfire", Name: "model_loaded"}, []string{"model"}),
		LightningEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wildfire", Name: "lightning_enabled"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wildfire", Name: "publish_errors_total"}),
	}
}
