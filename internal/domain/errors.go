package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidTransition indicates an order status change that skips or
	// reverses a lifecycle step.
	ErrInvalidTransition = errors.New("invalid status transition")
)
