package service

import "errors"

// Domain error kinds. Handlers map these to HTTP statuses with errors.Is;
// anything else that bubbles out of a service call is an infrastructure
// failure (store outage, lost version race) and is the caller's to retry.
var (
	// ErrNotFound means the id is absent or the row was already purged.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester lacks ownership or role for the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState means the action was attempted outside its legal time
	// window or on a comment not in the state the action requires.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation means the content failed length or emptiness checks.
	ErrValidation = errors.New("validation failed")
)
