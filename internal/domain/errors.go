package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrMalformedRecord = errors.New("malformed record")
	ErrSchema          = errors.New("unexpected response shape")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindConnection      ErrorKind = "connection"
	KindTimeout         ErrorKind = "timeout"
	KindHTTPStatus      ErrorKind = "http_status"
	KindDecode          ErrorKind = "decode"
	KindSchema          ErrorKind = "schema"
	KindMalformedRecord ErrorKind = "malformed_record"
	KindWrite           ErrorKind = "write"
	KindInvalidConfig   ErrorKind = "invalid_config"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op     string
	Kind   ErrorKind
	Status int    // Optional: HTTP status code for KindHTTPStatus
	Path   string // Optional: relevant file path
	Err    error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		base += fmt.Sprintf(" (status=%d)", e.Status)
	}
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

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// StatusCode returns the HTTP status attached to an http_status error, or 0.
func StatusCode(err error) int {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Status
	}
	return 0
}

// Kind returns the error's kind, or the empty string for unclassified errors.
func Kind(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
