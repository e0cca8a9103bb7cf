package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across ucsync.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID   = "run_id"
	FieldVersion = "version"
	FieldOrigin  = "origin"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldAction    = "action"

	// Files and paths
	FieldPath      = "path"
	FieldFile      = "file"
	FieldLine      = "line"
	FieldDirective = "directive"
	FieldPattern   = "pattern"
	FieldKind      = "kind"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount   = "count"
	FieldCreated = "created"
	FieldUpdated = "updated"
	FieldDeleted = "deleted"
	FieldSkipped = "skipped"
	FieldIssues  = "issues"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Resolver struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewResolver(...) *Resolver {
//	    return &Resolver{
//	        log: logger.ComponentLogger("resolve"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	verLog := logger.ChildLogger(baseLogger, logger.FieldVersion, v.ID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
