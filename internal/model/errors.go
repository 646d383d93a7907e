package model

import "strings"

// IsDuplicate spots sqlite unique-constraint violations so callers can
// report a duplicate instead of an opaque persistence failure.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE") || strings.Contains(s, "unique")
}
