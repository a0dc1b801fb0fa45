package utils

import "strconv"

// ParseLimit reads a positive row limit, falling back to def for anything
// missing, non-numeric or not positive.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
