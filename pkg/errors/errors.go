// Package errors provides custom error types for the grimoire system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Join wraps the given errors into one, discarding nils.
// It's an alias for the standard library errors.Join for convenience.
var Join = errors.Join

// Common sentinel errors for the grimoire system
var (
	// ErrNotFound indicates that a requested catalog entry was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an entry already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptManifest indicates that a persisted manifest is unreadable
	ErrCorruptManifest = errors.New("corrupt manifest")

	// ErrStrictScan indicates a scan aborted because strict mode is active
	ErrStrictScan = errors.New("strict scan failed")

	// ErrReadOnly indicates an attempt to modify a read-only catalog
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a catalog entry is not found.
type NotFoundError struct {
	Resource string // "entry", "manifest", "catalog"
	Kind     string // element kind, if known
	Name     string // element name or ID
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s %s %q not found", e.Kind, e.Resource, e.Name)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, kind, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Kind: kind, Name: name}
}

// ParseError represents a malformed source file. It is recoverable:
// the scanner records the file as skipped and continues.
type ParseError struct {
	Format  string // "yaml", "frontmatter"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// ValidationError represents a well-formed but schema-invalid element.
// Recoverable: the scanner skips the file unless strict mode is active.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ValidationErrors aggregates multiple validation failures for one element.
type ValidationErrors struct {
	Issues []*ValidationError
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("%d validation failures: %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Is implements errors.Is support
func (e *ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add appends a validation issue.
func (e *ValidationErrors) Add(issue *ValidationError) {
	e.Issues = append(e.Issues, issue)
}

// HasErrors reports whether any issue was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Issues) > 0
}

// CorruptManifestError indicates a persisted catalog manifest could not be
// decoded. Fatal for that kind's operations until the manifest is repaired
// or removed; data is never silently discarded.
type CorruptManifestError struct {
	Kind    string
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *CorruptManifestError) Error() string {
	return fmt.Sprintf("corrupt %s manifest at %s: %s", e.Kind, e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *CorruptManifestError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CorruptManifestError) Is(target error) bool {
	return target == ErrCorruptManifest
}

// NewCorruptManifestError creates a new CorruptManifestError
func NewCorruptManifestError(kind, path string, err error) *CorruptManifestError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &CorruptManifestError{Kind: kind, Path: path, Message: message, Err: err}
}

// IOError represents an error during I/O operations. Fatal for the
// affected root or manifest; other roots and kinds continue unaffected.
type IOError struct {
	Operation string // "read", "write", "walk", "rename", "stat"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// SyncError represents an error during catalog sync operations
type SyncError struct {
	Kind string
	Err  error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error for %s catalog: %v", e.Kind, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(kind string, err error) *SyncError {
	return &SyncError{Kind: kind, Err: err}
}

// ResourceError represents an error during catalog resource operations
type ResourceError struct {
	Operation string // "load", "save", "scan", "reconcile"
	Resource  string // "catalog", "manifest", "entry"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCorruptManifest checks if an error indicates a corrupt manifest
func IsCorruptManifest(err error) bool {
	return errors.Is(err, ErrCorruptManifest)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// StrictScanError aborts a strict-mode scan at the first bad file.
type StrictScanError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *StrictScanError) Error() string {
	return fmt.Sprintf("strict scan failed at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *StrictScanError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *StrictScanError) Is(target error) bool {
	return target == ErrStrictScan
}

// WrapStrictScan wraps a per-file failure as a StrictScanError
func WrapStrictScan(path string, err error) error {
	if err == nil {
		return nil
	}
	return &StrictScanError{Path: path, Err: err}
}
