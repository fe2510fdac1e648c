// Package util contains misc internal utilities.
package util

import "time"

// AllElementsNumbers returns true if every rune in s is a digit or a decimal
// point.  It is used to detect bare numbers in places that otherwise expect
// a time-like string, e.g. "10" vs "10ms".
func AllElementsNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// SecsToDuration converts a floating point number of seconds to a Duration
func SecsToDuration(s float64) time.Duration {
	return time.Duration(s*1e9) * time.Nanosecond
}
