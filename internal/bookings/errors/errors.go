package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStaleStatus means a conditional status transition matched no
	// document: the booking changed state under a concurrent request.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)
