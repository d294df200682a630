package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrRejected is returned when a write fails semantic validation,
	// e.g. a rating outside 0..5 or a review pointing at a missing product
	ErrRejected = errors.New("request rejected")

	// ErrInvalidInput is returned when input cannot be interpreted at all
	ErrInvalidInput = errors.New("invalid input")
)
