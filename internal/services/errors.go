package services

import "errors"

// Sentinel errors for the service layer. Handlers match these with
// errors.Is and translate them to HTTP statuses.
var (
	// ErrDuplicateUsername is returned when a signup targets an already
	// taken username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAdminKey is returned when an admin signup supplies a
	// wrong or empty admin key.
	ErrInvalidAdminKey = errors.New("invalid admin key")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSort is returned for an unsupported sort field or order.
	ErrInvalidSort = errors.New("invalid sort parameter")
)
