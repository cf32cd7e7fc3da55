package progression

import "errors"

var (
	// ErrUserNotFound indicates no progression state exists for the
	// given identity. Accounts are provisioned elsewhere; this is a
	// caller error and must not be retried.
	ErrUserNotFound = errors.New("user progression not found")
	// ErrInvalidEvent indicates a coupon event that violates its type
	// constraints (negative value). State is left untouched.
	ErrInvalidEvent = errors.New("invalid coupon event")
	// ErrStoreWrite indicates the updated state could not be saved.
	// The event's effects are not applied; retry the whole call.
	ErrStoreWrite = errors.New("could not save progression state")
)
