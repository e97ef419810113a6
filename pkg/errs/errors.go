package errs

import (
	"errors"
	"fmt"
)

// Error codes for engine failures.
const (
	CodeNoData           = "ERR_NO_DATA"
	CodeValidation       = "ERR_VALIDATION"
	CodeModelUnavailable = "ERR_MODEL_UNAVAILABLE"
	CodeUpstreamTimeout  = "ERR_UPSTREAM_TIMEOUT"
)

// Error is a typed engine error carrying a stable code.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Err     error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithParam attaches a single param to the error.
func (e *Error) WithParam(key string, value interface{}) *Error {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// New creates an error with the given code.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NoData signals that a subject has zero observations and cannot be scored.
func NoData(message string) *Error {
	return New(CodeNoData, message)
}

// NoDataf is NoData with formatting.
func NoDataf(format string, a ...interface{}) *Error {
	return NoData(fmt.Sprintf(format, a...))
}

// Validation signals malformed weights, thresholds, or context.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Validationf is Validation with formatting.
func Validationf(format string, a ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, a...))
}

// ModelUnavailable signals a requested model version that is not loaded.
func ModelUnavailable(version string) *Error {
	return New(CodeModelUnavailable, fmt.Sprintf("model version %q not found", version)).
		WithParam("version", version)
}

// UpstreamTimeout wraps a timeout propagated from a store or sink adapter.
func UpstreamTimeout(op string, err error) *Error {
	return New(CodeUpstreamTimeout, fmt.Sprintf("upstream timeout during %s", op)).WithError(err)
}

// CodeOf extracts the engine error code, or "" for untyped errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNoData reports whether err carries the no-data code.
func IsNoData(err error) bool { return CodeOf(err) == CodeNoData }

// IsValidation reports whether err carries the validation code.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsModelUnavailable reports whether err carries the model-unavailable code.
func IsModelUnavailable(err error) bool { return CodeOf(err) == CodeModelUnavailable }

// IsUpstreamTimeout reports whether err carries the upstream-timeout code.
func IsUpstreamTimeout(err error) bool { return CodeOf(err) == CodeUpstreamTimeout }
