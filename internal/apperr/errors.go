// Package apperr defines the sentinel errors shared across the service.
//
// These errors should be wrapped with context using fmt.Errorf("%w") when
// returned from business logic, and checked in handlers with errors.Is:
//
//	if errors.Is(err, apperr.ErrUserExists) {
//	    http.Error(w, "User already exists", http.StatusBadRequest)
//	}
package apperr

import "errors"

var (
	// ErrUserExists indicates the username or email is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates a failed login. Unknown users and wrong
	// passwords both map here so the response never reveals which it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a protected operation without a valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidImage indicates the submitted payload could not be decoded
	// into a recognizable image.
	ErrInvalidImage = errors.New("invalid image data")

	// ErrInference indicates the external model call failed for any reason
	// (transport, auth, quota, malformed response).
	ErrInference = errors.New("inference failed")
)
