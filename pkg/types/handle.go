package types

import (
	"fmt"
	"strconv"
)

// Handle identifies a compiled pattern held by a registry.
type Handle int64

// InvalidHandle is never assigned. It is returned when compilation fails.
const InvalidHandle Handle = -1

// GroupDelimiter separates capture group values when a pattern declares two
// or more groups and its find-all result is flattened into one string.
const GroupDelimiter = "\x01"

// Valid reports whether h could have been issued by a registry.
func (h Handle) Valid() bool {
	return h >= 0
}

// String implements Stringer.
func (h Handle) String() string {
	return strconv.FormatInt(int64(h), 10)
}

// ParseHandle parses a decimal handle.
func ParseHandle(s string) (Handle, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return InvalidHandle, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	if n < 0 {
		return InvalidHandle, fmt.Errorf("invalid handle %q: must be non-negative", s)
	}
	return Handle(n), nil
}
