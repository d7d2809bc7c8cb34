package pricing

import (
	"errors"
	"fmt"
)

// ErrUnifiedModelUnavailable means the unified fallback artifact failed
// to load. With no fallback the engine cannot produce any estimate, so
// this is fatal for the whole inference call -- never defaulted to a
// zero price.
var ErrUnifiedModelUnavailable = errors.New("pricing: unified model unavailable")

// SchemaMismatchError reports a feature vector whose shape or schema
// version disagrees with a model's expected input. Fatal for that model;
// the router falls back when the mismatched model is a specialist.
type SchemaMismatchError struct {
	ModelID     string
	WantVersion string
	GotVersion  string
	WantLen     int
	GotLen      int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("pricing: %s: schema mismatch (want %s/%d features, got %s/%d)",
		e.ModelID, e.WantVersion, e.WantLen, e.GotVersion, e.GotLen)
}

// ModelUnavailableError reports a specialist artifact that failed to
// load. Recoverable: routing skips the specialist and falls back.
type ModelUnavailableError struct {
	ModelID string
	Err     error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("pricing: model %s unavailable: %v", e.ModelID, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }
