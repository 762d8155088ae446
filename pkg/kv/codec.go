package kv

import (
	"errors"
	"strconv"
)

// Typed values share the plain-text encoding across all stores so that data
// written through one backend can be read through another.

func parseBool(raw string) (bool, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Join(ErrInvalidValue, err)
	}
	return v, nil
}

func parseInt(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrInvalidValue, err)
	}
	return v, nil
}
