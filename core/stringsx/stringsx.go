// Package stringsx holds small string helpers shared by the proxy packages.
package stringsx

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OneOf reports whether s equals one of ss.
func OneOf(s string, ss ...string) bool {
	return slices.Contains(ss, s)
}

// HasPrefix reports whether s starts with any of prefixes.
func HasPrefix(s string, prefixes ...string) bool {
	return slices.ContainsFunc(prefixes, func(p string) bool {
		return strings.HasPrefix(s, p)
	})
}

// TrimFirstPrefix removes the first non-empty prefix of s found in prefixes.
// s is returned unchanged when none matches.
func TrimFirstPrefix(s string, prefixes ...string) string {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}

	return s
}

// LowerFirstChar returns s with its first rune in lower case.
func LowerFirstChar(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
