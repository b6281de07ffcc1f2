package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("authentication required")
)

// Story errors
var (
	ErrStoryNotFound = errors.New("story not found")
	ErrNotStoryOwner = errors.New("only the story owner can perform this action")
	ErrEmptyTitle    = errors.New("story title must not be empty")
	ErrEmptyBody     = errors.New("story body must not be empty")
	ErrBadVisibility = errors.New("visibility must be public or private")
)

// ErrStoreUnavailable is surfaced after bounded retries against a failing
// backing store.
var ErrStoreUnavailable = errors.New("storage temporarily unavailable")
