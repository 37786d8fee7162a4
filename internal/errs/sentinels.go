// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across vault/repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist (no vault at the address).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller is not the vault owner or failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a create-if-absent collision (vault or username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidIndex indicates an entry index outside [0, len(entries)).
	ErrInvalidIndex = errors.New("invalid index")

	// ErrCapacityExceeded indicates an add past the layout's entry limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrFieldTooLong indicates a title, username or secret over its byte cap.
	ErrFieldTooLong = errors.New("field too long")

	// ErrCorrupt indicates a stored record that does not match its layout.
	ErrCorrupt = errors.New("corrupt record")
)
