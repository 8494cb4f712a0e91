package api

import "errors"

var (
	// ErrUnavailable means the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the session is missing, expired, or the
	// credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEntityTooLarge means the request body exceeded the server's or an
	// intermediary's size limit.
	ErrEntityTooLarge = errors.New("request entity too large")
)
