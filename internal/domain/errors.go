package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound            = errors.New("scan not found")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrMismatchedRoot      = errors.New("scans cover different root paths")
)

// ProbeFailure describes why a probe could not deliver a result.
type ProbeFailure int

const (
	// FailureUnavailable means the underlying tool is missing or exited
	// non-zero.
	FailureUnavailable ProbeFailure = iota
	// FailureTimeout means the probe exceeded its bounded wait.
	FailureTimeout
)

// ProbeError is a classified failure of one external measurement probe.
type ProbeError struct {
	Probe   string
	Failure ProbeFailure
	Err     error
}

// Error returns the error message
func (e *ProbeError) Error() string {
	var what string
	switch e.Failure {
	case FailureTimeout:
		what = "timed out"
	default:
		what = "unavailable"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s probe %s: %v", e.Probe, what, e.Err)
	}
	return fmt.Sprintf("%s probe %s", e.Probe, what)
}

// Unwrap returns the underlying error
func (e *ProbeError) Unwrap() error {
	return e.Err
}

// NewProbeUnavailable creates a ProbeError for a missing or failing tool.
func NewProbeUnavailable(probe string, err error) *ProbeError {
	return &ProbeError{Probe: probe, Failure: FailureUnavailable, Err: err}
}

// NewProbeTimeout creates a ProbeError for an exceeded bounded wait.
func NewProbeTimeout(probe string, err error) *ProbeError {
	return &ProbeError{Probe: probe, Failure: FailureTimeout, Err: err}
}

// IsProbeTimeout reports whether err is a probe timeout.
func IsProbeTimeout(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe) && pe.Failure == FailureTimeout
}

// IsProbeUnavailable reports whether err is a missing/failed tool.
func IsProbeUnavailable(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe) && pe.Failure == FailureUnavailable
}

// ScanError is a fatal merge failure: the scan as a whole produced no
// usable result.
type ScanError struct {
	Reason string
	Err    error
}

// Error returns the error message
func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scan failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scan failed: %s", e.Reason)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewScanError creates a fatal scan error with the underlying reason.
func NewScanError(reason string, err error) *ScanError {
	return &ScanError{Reason: reason, Err: err}
}

// IsScanError reports whether err is a fatal scan failure.
func IsScanError(err error) bool {
	var se *ScanError
	return errors.As(err, &se)
}
