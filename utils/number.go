package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ParseGermanNumber converts a German formatted number ("1.234,56") into a float.
// Dots are thousands separators and the comma is the decimal mark. Anything that
// cannot be parsed yields 0.
func ParseGermanNumber(token string) float64 {
	s := strings.ReplaceAll(token, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// NormalizeWhitespace collapses every whitespace run into a single space.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// Round2 rounds to whole cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
