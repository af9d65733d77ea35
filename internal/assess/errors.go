package assess

import (
	"errors"
	"fmt"
)

// Pipeline stage names carried by StageError and used as metric labels.
const (
	StageFeatures   = "features"
	StageSpread     = "spread_model"
	StageClassifier = "classifier"
)

// ErrModeUnavailable marks an assessment mode whose model was not
// configured at startup.
var ErrModeUnavailable = errors.New("assessment mode unavailable: model not loaded")

// errNoModels is returned by readiness checks when neither model loaded.
var errNoModels = errors.New("no assessment model loaded")

// StageError identifies which collaborator stage failed so callers can
// report the failing stage without parsing error strings.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
