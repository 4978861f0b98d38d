package models

import "errors"

// Failure classes reported by the policy engine. Callers choose a response with
// errors.Is; the wrapped detail is for logs only.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrStoreFailure   = errors.New("store failure")
)
