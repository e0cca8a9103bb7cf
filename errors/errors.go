// Package errors provides error handling for ucsync.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run `ucsync clean` and retry")
//
//	// Check errors
//	if errors.Is(err, errors.ErrSyncInProgress) {
//	    // another process holds the spec lock
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for use across ucsync.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrSyncInProgress indicates another live process holds the spec-root lock.
	ErrSyncInProgress = New("sync already in progress")

	// ErrInvalidManifest indicates the version manifest could not be used:
	// cycle, forward reference, duplicate id, malformed glob, or a failed
	// engine-version requirement.
	ErrInvalidManifest = New("invalid version manifest")

	// ErrUnknownVersion indicates a requested version id is not declared
	// in the manifest.
	ErrUnknownVersion = New("unknown version")

	// ErrIssuesReported indicates a run completed but collected recoverable
	// fixture issues; commands map it to a nonzero exit after the summary.
	ErrIssuesReported = New("issues reported")
)

// IsSyncInProgress checks if an error is or wraps ErrSyncInProgress.
func IsSyncInProgress(err error) bool {
	return err != nil && Is(err, ErrSyncInProgress)
}

// IsInvalidManifest checks if an error is or wraps ErrInvalidManifest.
func IsInvalidManifest(err error) bool {
	return err != nil && Is(err, ErrInvalidManifest)
}

// IsUnknownVersion checks if an error is or wraps ErrUnknownVersion.
func IsUnknownVersion(err error) bool {
	return err != nil && Is(err, ErrUnknownVersion)
}

// NewInvalidManifestError creates an invalid-manifest error with a formatted message.
func NewInvalidManifestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidManifest, Newf(format, args...).Error())
}

// NewUnknownVersionError creates an unknown-version error naming the id.
func NewUnknownVersionError(id string) error {
	return Wrap(ErrUnknownVersion, id)
}
