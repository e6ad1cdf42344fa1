package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrMissingEnvVar  = errors.New("missing environment variable")
	ErrMissingParam   = errors.New("missing parameter")
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrorKind is the machine-readable code carried by every engine failure.
type ErrorKind string

const (
	KindConfigInvalid      ErrorKind = "CONFIG_INVALID"
	KindConfigParse        ErrorKind = "CONFIG_PARSE_ERROR"
	KindServiceNotFound    ErrorKind = "SERVICE_NOT_FOUND"
	KindEndpointNotFound   ErrorKind = "ENDPOINT_NOT_FOUND"
	KindEnvVarNotFound     ErrorKind = "ENV_VAR_NOT_FOUND"
	KindParamRequired      ErrorKind = "PARAM_REQUIRED"
	KindParamInvalid       ErrorKind = "PARAM_INVALID"
	KindAuthMissing        ErrorKind = "AUTH_MISSING"
	KindAuthInvalid        ErrorKind = "AUTH_INVALID"
	KindAPITimeout         ErrorKind = "API_TIMEOUT"
	KindAPIRequestFailed   ErrorKind = "API_REQUEST_FAILED"
	KindAPIResponseInvalid ErrorKind = "API_RESPONSE_INVALID"
	KindCache              ErrorKind = "CACHE_ERROR"
	KindInternal           ErrorKind = "INTERNAL"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error

	// Details is structured, JSON-friendly context surfaced to callers
	// (e.g. upstream status and body for API_REQUEST_FAILED).
	Details map[string]any
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message returns the human part of the error without the op/kind prefix.
func (e *OpError) Message() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the outermost OpError in the chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindInternal
}

// NewError is a shorthand for an OpError with a formatted message.
func NewError(op string, kind ErrorKind, format string, args ...any) *OpError {
	return &OpError{
		Op:   op,
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

// ToResultError converts any error into the structured error of a CallResult.
func ToResultError(err error) *ResultError {
	if err == nil {
		return nil
	}

	var oe *OpError
	if !errors.As(err, &oe) {
		return &ResultError{
			Code:    string(KindInternal),
			Message: err.Error(),
		}
	}

	re := &ResultError{
		Code:    string(oe.Kind),
		Message: oe.Message(),
	}
	if oe.Path != "" {
		re.Message = fmt.Sprintf("%s (%s)", re.Message, oe.Path)
	}
	if len(oe.Details) > 0 {
		re.Details = oe.Details
	}
	return re
}
