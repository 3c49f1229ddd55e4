// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// Artifact load stages.
const (
	StageFetch  = "fetch"
	StageDecode = "decode"
	StageVerify = "verify"
	StageType   = "type"
)

// ArtifactLoadError means the classifier could not be made ready. It is fatal
// at startup: the process must not serve predictions.
type ArtifactLoadError struct {
	Key   string
	Stage string
	Err   error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %s failed: %v", e.Key, e.Stage, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

func NewArtifactLoadError(key, stage string, err error) error {
	return &ArtifactLoadError{Key: key, Stage: stage, Err: err}
}

// SchemaMismatchError is returned per request when a feature vector does not
// line up with the columns the artifact was trained on.
type SchemaMismatchError struct {
	Missing       []string
	Unexpected    []string
	TypeMismatch  []string
	OrderMismatch bool
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected columns: "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.TypeMismatch) > 0 {
		parts = append(parts, "wrong value type for: "+strings.Join(e.TypeMismatch, ", "))
	}
	if e.OrderMismatch {
		parts = append(parts, "columns out of order")
	}
	if len(parts) == 0 {
		return "feature schema mismatch"
	}
	return "feature schema mismatch: " + strings.Join(parts, "; ")
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every rejected field of a record.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + " " + f.Reason
	}
	return "invalid customer record: " + strings.Join(msgs, "; ")
}

func NewValidationError(fields []FieldError) error {
	return &ValidationError{Fields: fields}
}

func OutOfRange(v, min, max int) string {
	return fmt.Sprintf("must be between %d and %d, got %d", min, max, v)
}

func NotInVocabulary(v string, allowed []string) string {
	return fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), v)
}

func IsArtifactLoad(err error) bool {
	var target *ArtifactLoadError
	return errors.As(err, &target)
}

func IsSchemaMismatch(err error) bool {
	var target *SchemaMismatchError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// ErrArtifactNotFound is returned by model stores when no blob exists for a key.
var ErrArtifactNotFound = errors.New("artifact not found")
