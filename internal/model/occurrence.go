package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// classifierFeatureCount is the binary classifier's input width:
// temperature, humidity, wind, precipitation, VPD, lightning indicator.
const classifierFeatureCount = 6

// The classifier export emits raw scores; ZipMap is stripped at conversion
// so the output is a plain float tensor.
const (
	classifierInputName  = "float_input"
	classifierOutputName = "logits"
	classifierOutputLen  = 2
)

// OccurrenceModel is the trained binary fire-occurrence classifier: weather
// plus a lightning indicator in, probability of fire occurrence out.
type OccurrenceModel struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadOccurrenceModel initializes the runtime and opens an ONNX session for
// the classifier at path.
func LoadOccurrenceModel(path, libDir string) (*OccurrenceModel, error) {
	if path == "" {
		return nil, errors.New("occurrence model path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("occurrence model missing at %s: %w", path, err)
	}
	if err := ensureRuntime(libDir); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, classifierFeatureCount))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, classifierOutputLen))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		path,
		[]string{classifierInputName},
		[]string{classifierOutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create occurrence model session: %w", err)
	}

	return &OccurrenceModel{session: session, input: input, output: output}, nil
}

// PredictProbability runs the classifier and returns the probability of fire
// occurrence in [0,1].
func (m *OccurrenceModel) PredictProbability(_ context.Context, w domain.WeatherConditions, lightningDetected bool) (float64, error) {
	if m == nil || m.session == nil {
		return 0, errors.New("occurrence model not initialized")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.input.GetData(), classifierFeatureVector(w, lightningDetected))
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("occurrence model run: %w", err)
	}

	return probabilityFromScores(m.output.GetData())
}

// Close releases the session and its tensors.
func (m *OccurrenceModel) Close() {
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

// classifierFeatureVector packs classifier inputs in training column order.
func classifierFeatureVector(w domain.WeatherConditions, lightningDetected bool) []float32 {
	lightning := float32(0)
	if lightningDetected {
		lightning = 1
	}
	return []float32{
		float32(w.TemperatureC),
		float32(w.RelativeHumidityPct),
		float32(w.WindSpeedMS),
		float32(w.PrecipitationMM24h),
		float32(w.VaporPressureDeficitKPa),
		lightning,
	}
}

// probabilityFromScores turns raw classifier output into the positive-class
// probability. A single score is treated as a logit (sigmoid); a score pair
// is softmaxed and the second entry taken, covering both common export
// shapes for binary classifiers.
func probabilityFromScores(scores []float32) (float64, error) {
	switch len(scores) {
	case 0:
		return 0, errors.New("occurrence model returned no output")
	case 1:
		return 1 / (1 + math.Exp(-float64(scores[0]))), nil
	default:
		neg := float64(scores[0])
		pos := float64(scores[1])
		// Softmax on the first two scores, stabilized against overflow.
		m := math.Max(neg, pos)
		eNeg := math.Exp(neg - m)
		ePos := math.Exp(pos - m)
		return ePos / (eNeg + ePos), nil
	}
}
