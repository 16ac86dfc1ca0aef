package textutil

import "unicode/utf8"

// Truncate shortens s to at most maxLen bytes plus suffix, backing up to a
// rune boundary. Strings within the limit are returned as is.
func Truncate(s string, maxLen int, suffix string) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + suffix
}
