package chefs

import (
	"errors"
	"fmt"
)

// Sentinel reasons carried by ValidationError and failure results.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileNotReadable   = errors.New("file not readable")
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrFileTooLarge reports a file above the configured size ceiling. It
	// is a processing failure, never a pre-flight validation failure.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)

// ValidationError reports a pre-flight rejection of a source file. It is
// returned synchronously by ValidateFile and by Process before extraction
// starts; extraction failures are reported through ProcessingResult instead.
type ValidationError struct {
	// Path is the rejected file.
	Path string
	// Reason is one of the package sentinels, reachable via errors.Is.
	Reason error
	// Detail optionally narrows the reason (extension seen, os error).
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("validate %s: %v: %s", e.Path, e.Reason, e.Detail)
	}
	return fmt.Sprintf("validate %s: %v", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func newValidationError(path string, reason error, detail string) *ValidationError {
	return &ValidationError{Path: path, Reason: reason, Detail: detail}
}
