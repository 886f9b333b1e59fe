// Package query turns untrusted path segments into typed identifiers and retrieval specs.
package query

import (
	"math"
	"strconv"

	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

// MaxResponseNumber is the largest response number storage can hold (INTEGER column).
const MaxResponseNumber = math.MaxInt32

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseThreadId accepts a decimal numeral (leading zeros allowed) denoting a positive int64.
func ParseThreadId(raw string) (domain.ThreadId, error) {
	if !isDigits(raw) {
		return 0, internal_errors.New(internal_errors.InvalidIdentifier, "invalid thread id %q: must be a positive integer", raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, internal_errors.New(internal_errors.InvalidIdentifier, "invalid thread id %q: must be a positive integer", raw)
	}
	return id, nil
}

// ParseResponseNumber accepts a decimal numeral denoting a response number in [1, MaxResponseNumber].
func ParseResponseNumber(raw string) (domain.ResponseNumber, error) {
	if !isDigits(raw) {
		return 0, internal_errors.New(internal_errors.InvalidIdentifier, "invalid response number %q: must be a positive integer", raw)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		return 0, internal_errors.New(internal_errors.InvalidIdentifier, "invalid response number %q: must be a positive integer", raw)
	}
	return domain.ResponseNumber(n), nil
}

// parseCount reads the digit run of an lN segment. Values past the response number range
// saturate: no thread can hold more responses than that.
func parseCount(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return MaxResponseNumber
	}
	return int(n)
}
