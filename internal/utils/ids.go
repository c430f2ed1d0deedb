// Package utils parses request identifiers.
package utils

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned by ParseID for anything that is not a positive
// decimal integer.
var ErrInvalidID = errors.New("id must be a positive integer")

// ParseID parses a path identifier into a uint64. Signs, whitespace, zero
// and values above math.MaxInt64 are rejected, since ids are stored in a
// signed 64-bit column.
//
// Example:
//
//	id, err := utils.ParseID("42") // 42, nil
//	_, err = utils.ParseID("0")    // ErrInvalidID
//	_, err = utils.ParseID("x")    // ErrInvalidID
func ParseID(s string) (uint64, error) {
	if s == "" || s[0] == '+' {
		return 0, ErrInvalidID
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return uint64(n), nil
}
