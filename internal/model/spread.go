package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// spreadFeatureCount is the regressor's input width. The order of
// spreadFeatureVector must match the column order the model was trained on.
const spreadFeatureCount = 12

// ONNX graph tensor names produced by the standard sklearn/xgboost export.
const (
	spreadInputName  = "float_input"
	spreadOutputName = "variable"
)

// SpreadModel is the trained rate-of-spread regressor: a 12-feature
// environmental vector in, a scalar ROS in m/min out.
type SpreadModel struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	// The session reuses its tensors across calls, so Run is serialized.
	mu sync.Mutex
}

// LoadSpreadModel initializes the runtime and opens an ONNX session for the
// regressor at path. libDir is probed for a bundled onnxruntime library.
func LoadSpreadModel(path, libDir string) (*SpreadModel, error) {
	if path == "" {
		return nil, errors.New("spread model path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("spread model missing at %s: %w", path, err)
	}
	if err := ensureRuntime(libDir); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, spreadFeatureCount))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		path,
		[]string{spreadInputName},
		[]string{spreadOutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create spread model session: %w", err)
	}

	return &SpreadModel{session: session, input: input, output: output}, nil
}

// PredictROS runs the regressor on a feature set. The result carries the
// mandatory 0.01 m/min floor regardless of what the model emits.
func (m *SpreadModel) PredictROS(_ context.Context, f domain.FeatureSet) (domain.RateOfSpread, error) {
	if m == nil || m.session == nil {
		return 0, errors.New("spread model not initialized")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.input.GetData(), spreadFeatureVector(f))
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("spread model run: %w", err)
	}

	out := m.output.GetData()
	if len(out) == 0 {
		return 0, errors.New("spread model returned no output")
	}
	return domain.NewRateOfSpread(float64(out[0])), nil
}

// Close releases the session and its tensors.
func (m *SpreadModel) Close() {
	if m == nil {
		return
	}
	if m.session != nil {
		m.session.Destroy()
	}
	if m.input != nil {
		m.input.Destroy()
	}
	if m.output != nil {
		m.output.Destroy()
	}
}

// spreadFeatureVector packs a FeatureSet in training column order.
func spreadFeatureVector(f domain.FeatureSet) []float32 {
	return []float32{
		float32(f.TemperatureC),
		float32(f.RelativeHumidityPct),
		float32(f.WindSpeedMS),
		float32(f.PrecipitationMM),
		float32(f.VaporPressureDeficitKPa),
		float32(f.FireWeatherIndex),
		float32(f.NDVI),
		float32(f.NDMI),
		float32(f.FuelMoistureProxyPct),
		float32(f.ElevationM),
		float32(f.SlopePct),
		float32(f.AspectDeg),
	}
}
