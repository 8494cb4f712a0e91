// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")

	// Upload validation errors (terminal, never retried).
	ErrorFileEmpty       = errors.New("file is empty")
	ErrorFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrorInvalidFileType = errors.New("unsupported file type")

	// Save-gate error: a vehicle cannot be persisted while any staged
	// image has no asset id yet.
	ErrImagesPending = errors.New("images still pending upload")
)
