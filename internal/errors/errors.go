// Package errors consolidates error definitions for the pqbench harness.
//
// This package provides:
// - Sentinel errors for all error conditions
// - Error category checking functions (configuration vs. conversion tier)
// - Failure kind classification for conversion outcomes
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
	"os"
)

// ============================================================================
// Failure kinds - the uniform taxonomy reported by conversion adapters
// ============================================================================

// Kind classifies a conversion failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindFileNotFound
	KindDecode
	KindEncode
)

// String returns a human-readable name for a failure kind.
func (k Kind) String() string {
	switch k {
	case KindFileNotFound:
		return "FileNotFound"
	case KindDecode:
		return "DecodeError"
	case KindEncode:
		return "EncodeError"
	default:
		return "UnknownFailure"
	}
}

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Configuration errors - fail fast, before any timed work begins
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidMonthRange = errors.New("month_start and month_stop must be between 1 (Jan) and 12 (Dec)")
	ErrInvertedRange     = errors.New("month_start cannot be greater than month_stop")
	ErrSampleTooLarge    = errors.New("sample size exceeds source row count")
	ErrInvalidSampleSize = errors.New("sample size must be positive")
	ErrOutputDir         = errors.New("output directory not writable")

	// Conversion errors - caught at the adapter boundary, never fatal
	ErrInputNotFound = errors.New("input file not found")
	ErrDecode        = errors.New("decode failed")
	ErrEncode        = errors.New("encode failed")

	// Manifest errors
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestFormat   = errors.New("malformed manifest")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// New is a convenience wrapper for errors.New
var New = errors.New

// Join is a convenience wrapper for errors.Join
var Join = errors.Join

// IsConfiguration returns true if err belongs to the fail-fast configuration tier.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidMonthRange) ||
		errors.Is(err, ErrInvertedRange) ||
		errors.Is(err, ErrSampleTooLarge) ||
		errors.Is(err, ErrInvalidSampleSize) ||
		errors.Is(err, ErrOutputDir)
}

// IsConversion returns true if err belongs to the per-job conversion tier.
func IsConversion(err error) bool {
	return errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrEncode)
}

// ============================================================================
// Failure classification
// ============================================================================

// Classify maps an error to its failure kind. Wrapped sentinel errors and
// filesystem not-exist errors are recognized; everything else is unknown.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInputNotFound),
		errors.Is(err, os.ErrNotExist):
		return KindFileNotFound
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrEncode),
		errors.Is(err, os.ErrPermission):
		return KindEncode
	default:
		return KindUnknown
	}
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}
