package kv

import "errors"

var (
	// ErrKeyNotFound indicates the requested key has no stored value.
	ErrKeyNotFound = errors.New("kv: key not found")

	// ErrInvalidValue indicates the stored value could not be decoded as the
	// requested type.
	ErrInvalidValue = errors.New("kv: stored value has invalid format")
)
