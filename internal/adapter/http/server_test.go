package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/wildfire-threat-service/internal/adapter/http"
	"github.com/couchcryptid/wildfire-threat-service/internal/assess"
	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
	"github.com/couchcryptid/wildfire-threat-service/internal/provider"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockFeatures struct {
	snap provider.Snapshot
	err  error
}

func (m *mockFeatures) Fetch(_ context.Context, _, _ float64) (provider.Snapshot, error) {
	return m.snap, m.err
}

type mockSpread struct {
	ros domain.RateOfSpread
	err error
}

func (m *mockSpread) PredictROS(_ context.Context, _ domain.FeatureSet) (domain.RateOfSpread, error) {
	return m.ros, m.err
}

type mockOccurrence struct {
	probability float64
	err         error
}

func (m *mockOccurrence) PredictProbability(_ context.Context, _ domain.WeatherConditions, _ bool) (float64, error) {
	return m.probability, m.err
}

func testSnapshot() provider.Snapshot {
	return provider.Snapshot{
		Features: domain.NewFeatureSet(domain.FeatureSet{
			TemperatureC:        33,
			RelativeHumidityPct: 25,
			WindSpeedMS:         6,
			NDVI:                0.5,
			NDMI:                0.3,
		}),
		Weather:   domain.WeatherConditions{TemperatureC: 33, RelativeHumidityPct: 25, WindSpeedMS: 6},
		Lightning: domain.LightningActivity{Detected: false},
	}
}

func newTestServer(features assess.FeatureProvider, spread assess.SpreadPredictor, occurrence assess.OccurrencePredictor, readyErr error) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assessor := assess.New(
		features,
		spread,
		occurrence,
		nil,
		domain.DefaultCalibration(),
		observability.NewMetricsForTesting(),
		logger,
	)
	return httpadapter.NewServer(":0", assessor, &mockReadiness{err: readyErr}, logger)
}

func defaultTestServer() *httpadapter.Server {
	return newTestServer(
		&mockFeatures{snap: testSnapshot()},
		&mockSpread{ros: domain.NewRateOfSpread(2.0)},
		&mockOccurrence{probability: 0.35},
		nil,
	)
}

func TestAnalyzeThreatReturns200(t *testing.T) {
	srv := defaultTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analyze-threat?lat=28.6&lon=77.2", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Location struct {
			Lat float64 `json:"lat"`
		} `json:"location"`
		ROSMPerMin       float64 `json:"ros_prediction_m_per_min"`
		ThreatAssessment struct {
			ThreatLevel string `json:"threat_level"`
			Summary     string `json:"summary"`
		} `json:"threat_assessment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 28.6, report.Location.Lat)
	assert.Equal(t, 2.0, report.ROSMPerMin)
	assert.NotEmpty(t, report.ThreatAssessment.ThreatLevel)
	assert.NotEmpty(t, report.ThreatAssessment.Summary)
}

func TestAnalyzeThreatRejectsBadCoordinates(t *testing.T) {
	srv := defaultTestServer()

	cases := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=77.2"},
		{"missing lon", "lat=28.6"},
		{"non-numeric lat", "lat=abc&lon=77.2"},
		{"lat out of range", "lat=91&lon=77.2"},
		{"lon out of range", "lat=28.6&lon=181"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/analyze-threat?"+tc.query, nil)

			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeThreatReportsFailingStage(t *testing.T) {
	srv := newTestServer(
		&mockFeatures{err: errors.New("weather upstream down")},
		&mockSpread{},
		nil,
		nil,
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analyze-threat?lat=28.6&lon=77.2", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "features", body["stage"])
	// Upstream detail stays in the logs, not the response.
	assert.NotContains(t, body["error"], "upstream")
}

func TestAnalyzeThreatReturns503WhenModeUnconfigured(t *testing.T) {
	srv := newTestServer(&mockFeatures{snap: testSnapshot()}, nil, &mockOccurrence{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analyze-threat?lat=28.6&lon=77.2", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPredictRiskReturns200(t *testing.T) {
	srv := defaultTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/predict?lat=28.6&lon=77.2", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var prediction struct {
		FireRiskPercentage float64 `json:"fire_risk_percentage"`
		RiskLevel          string  `json:"risk_level"`
		FireExpected       bool    `json:"fire_expected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prediction))
	assert.Equal(t, 35.0, prediction.FireRiskPercentage)
	assert.Equal(t, "Moderate", prediction.RiskLevel)
	assert.False(t, prediction.FireExpected)
}

func TestPredictRiskReturns500OnClassifierFailure(t *testing.T) {
	srv := newTestServer(
		&mockFeatures{snap: testSnapshot()},
		nil,
		&mockOccurrence{err: errors.New("bad tensor shape")},
		nil,
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/predict?lat=28.6&lon=77.2", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "classifier", body["stage"])
}

func TestHealthzReturns200(t *testing.T) {
	srv := defaultTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(
		&mockFeatures{snap: testSnapshot()},
		&mockSpread{},
		&mockOccurrence{},
		fmt.Errorf("models not loaded"),
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "models not loaded", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := defaultTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
