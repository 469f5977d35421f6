package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMalformedInput = errors.New("malformed input")
)
