// Package http exposes the assessment API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-threat-service/internal/assess"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the assessment endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	assessor   *assess.Assessor
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the assessment routes plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, assessor *assess.Assessor, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		assessor: assessor,
		logger:   logger,
	}

	mux.HandleFunc("GET /analyze-threat", s.handleAnalyzeThreat)
	mux.HandleFunc("GET /predict", s.handlePredictRisk)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAnalyzeThreat(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	report, err := s.assessor.AnalyzeThreat(r.Context(), lat, lon)
	if err != nil {
		s.writeAssessmentError(w, "threat analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePredictRisk(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	prediction, err := s.assessor.PredictRisk(r.Context(), lat, lon)
	if err != nil {
		s.writeAssessmentError(w, "risk prediction", err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

// writeAssessmentError maps pipeline failures to status codes: an
// unconfigured mode is 503, anything else is 500 with the failing stage
// named when known.
func (s *Server) writeAssessmentError(w http.ResponseWriter, operation string, err error) {
	if errors.Is(err, assess.ErrModeUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	}

	s.logger.Error(operation+" failed", "error", err)
	body := errorBody{Error: operation + " failed"}
	var stageErr *assess.StageError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// parseCoordinates validates the lat/lon query parameters, writing a 400
// response and returning ok=false when they are missing or out of range.
func parseCoordinates(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "lat must be a number"})
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "lon must be a number"})
		return 0, 0, false
	}
	if lat < -90 || lat > 90 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "lat must be within [-90, 90]"})
		return 0, 0, false
	}
	if lon < -180 || lon > 180 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "lon must be within [-180, 180]"})
		return 0, 0, false
	}
	return lat, lon, true
}

type errorBody struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
