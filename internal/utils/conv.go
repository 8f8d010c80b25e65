package utils

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid identifier")

// ParseID parses a positive decimal row identifier from a path segment.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}
