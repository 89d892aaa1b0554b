package services

import "errors"

// Error classes. Controllers map these onto HTTP statuses; services wrap
// them with fmt.Errorf("%w: ...") to carry the user-facing detail.
var (
	// ErrUnauthenticated means the operation needs a signed-in caller.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermissionDenied means the role or admin check failed. The
	// operation performs no mutation; nothing is sent to the store.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation means the input or the current state rejected the
	// operation before any write: insufficient stock, empty cart, missing
	// product, invalid role.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is the user-facing classification for failed
	// sign-in attempts, deliberately the same for unknown email and wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailInUse is returned when signing up with a taken email.
	ErrEmailInUse = errors.New("email already in use")
)
