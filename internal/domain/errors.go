package domain

import "errors"

var (
	// ErrAuthRequired is returned when no authenticated caregiver is attached to the call.
	ErrAuthRequired = errors.New("no authenticated caregiver")
	// ErrNotFound is returned when a row cannot be located within the owner's scope.
	ErrNotFound = errors.New("not found")
	// ErrStoreRead wraps failures while loading state; callers must abort the operation.
	ErrStoreRead = errors.New("store read failed")
	// ErrStoreWrite wraps failures while persisting state; idempotent operations may
	// leave these for the next trigger instead of rolling back.
	ErrStoreWrite = errors.New("store write failed")
	// ErrInvalidInput is returned when a record fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")
)
