package utils

import (
	"strings"
	"unicode"
)

// Words that end a name when they show up right after it in flattened text.
var nameStopWords = map[string]bool{
	"personalnummer":      true,
	"personal-nr":         true,
	"pers.-nr":            true,
	"monat":               true,
	"zeitraum":            true,
	"abrechnung":          true,
	"abrechnungsmonat":    true,
	"abrechnungszeitraum": true,
	"datum":               true,
	"brutto":              true,
	"netto":               true,
	"steuerklasse":        true,
	"steuer-id":           true,
	"sv-nummer":           true,
	"stunden":             true,
	"eintritt":            true,
	"geburtsdatum":        true,
	"firma":               true,
	"gmbh":                true,
}

const maxNameWords = 3

func cleanName(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Fields(s)

	clean := []string{}
	for _, p := range parts {
		l := strings.ToLower(strings.TrimRight(p, ".:"))
		if nameStopWords[l] {
			break // stop reading further noise
		}
		clean = append(clean, p)
		if len(clean) == maxNameWords {
			break
		}
	}

	return strings.Join(clean, " ")
}

func isCleanName(s string) bool {
	if s == "" {
		return false
	}
	for _, p := range strings.Fields(s) {
		for _, r := range p {
			if !unicode.IsLetter(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

// NormalizeString normalizes string for comparison (lowercase, remove spaces)
func NormalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// CompareNames compares two names for matching
func CompareNames(name1, name2 string) bool {
	if name1 == "" || name2 == "" {
		return false
	}

	norm1 := NormalizeString(name1)
	norm2 := NormalizeString(name2)

	// Exact match
	if norm1 == norm2 {
		return true
	}

	// Every word of the shorter name must appear in the longer one, in any order.
	words1 := nameWords(name1)
	words2 := nameWords(name2)

	if len(words1) > len(words2) {
		words1, words2 = words2, words1
	}
	if len(words1) == 0 {
		return false
	}

	matchCount := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if w1 == w2 {
				matchCount++
				break
			}
		}
	}

	return matchCount == len(words1)
}

func nameWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
