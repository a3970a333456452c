// Package errors provides error handling for qntx-ctags.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := runner.Run(ctx, exe, "--help"); err != nil {
//	    return errors.Wrap(err, "failed to run ctags --help")
//	}
//
//	// Classify against the probe taxonomy
//	if errors.Is(err, errors.ErrExecutableNotFound) {
//	    // report and stay inert
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithMessage = crdb.WithMessage
	Mark        = crdb.Mark
)

// User-facing hints
var (
	WithHint     = crdb.WithHint
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is          = crdb.Is
	IsAny       = crdb.IsAny
	As          = crdb.As
	GetAllHints = crdb.GetAllHints
)

// Probe failure taxonomy. Every one of these is reported to the host once
// and leaves the source inert; none of them is fatal.
var (
	// ErrConfiguration indicates the host supplied an unusable configuration value
	ErrConfiguration = New("invalid configuration")

	// ErrExecutableNotFound indicates the configured executable is not on the search path
	ErrExecutableNotFound = New("executable not found")

	// ErrIncompatibleExecutable indicates the executable is not a JSON-capable Universal Ctags
	ErrIncompatibleExecutable = New("incompatible executable")
)

// IsProbeFailure reports whether err belongs to the probe failure taxonomy
func IsProbeFailure(err error) bool {
	return err != nil && IsAny(err, ErrConfiguration, ErrExecutableNotFound, ErrIncompatibleExecutable)
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// NewIncompatibleError creates an incompatible-executable error with a formatted message
func NewIncompatibleError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrIncompatibleExecutable)
}
