package scrape

import "strings"

// Clean trims s and collapses internal whitespace runs to single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns at most limit runes of s.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
