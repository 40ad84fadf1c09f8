package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrResourceNotFound = errors.New("resource not found")
)
