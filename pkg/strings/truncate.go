// Package strings holds small text helpers for terminal output.
package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the description column width used by list.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the smallest width TruncateDescription will produce.
const MinTruncateLen = 4

const ellipsis = "..."

// SingleLine collapses every run of whitespace, newlines included, into one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateDescription returns s on a single line and at most maxLen runes
// long, ending in "..." when it was cut. maxLen below MinTruncateLen is
// raised to MinTruncateLen.
func TruncateDescription(s string, maxLen int) string {
	maxLen = max(maxLen, MinTruncateLen)

	s = SingleLine(s)
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
