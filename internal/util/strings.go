package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Max values below 1 return the empty string.
func Truncate(s string, max int) string {
	if max < 1 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	if max == 1 {
		return "…"
	}

	return string(runes[:max-1]) + "…"
}

// Capitalize upper-cases the first letter of each word.
func Capitalize(s string) string {
	return titleCaser.String(s)
}

// Initials derives up to two upper-case initials from a display name.
// "Ada Lovelace" becomes "AL", "ada" becomes "A", and the empty string
// stays empty.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}

	first := strings.ToUpper(string([]rune(fields[0])[0]))
	if len(fields) == 1 {
		return first
	}

	last := strings.ToUpper(string([]rune(fields[len(fields)-1])[0]))

	return first + last
}
