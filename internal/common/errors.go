package common

import "errors"

// Domain error taxonomy; services wrap these with fmt.Errorf("%w: ...")
var (
	// ErrValidation malformed or missing input (400)
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized missing or invalid credentials (401)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden caller does not own the target (403)
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound no such row, or a state precondition is unmet (404)
	ErrNotFound = errors.New("resource not found")
	// ErrConflict uniqueness violation (409)
	ErrConflict = errors.New("conflict")
	// ErrStorageUnavailable object store not configured (503)
	ErrStorageUnavailable = errors.New("storage unavailable")
)
