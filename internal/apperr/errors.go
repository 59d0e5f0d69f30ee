package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned (wrapped) when an addressed document does not exist.
var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with the kind and id of the missing resource.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input breaks a schema constraint.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// OrNil returns e as an error when it holds violations, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a ValidationError for one field.
func Invalid(field, format string, args ...interface{}) error {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// UpstreamError wraps a failure reported by an external service (object store, places API).
type UpstreamError struct {
	Service string
	Code    string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s error %s: %s", e.Service, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Service, msg)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConfigError reports a required setting that is absent at the time it is needed.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Key)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
