package core

import (
	"strings"
	"time"
)

// NowFunc is used to get the current time. Override in tests.
var NowFunc = time.Now

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Now returns the current UTC time, truncated to microseconds (what postgres stores).
func Now() time.Time {
	return NowFunc().UTC().Truncate(time.Microsecond)
}
