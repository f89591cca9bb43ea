package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r can be part of a word token.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsCheckable reports whether a token from free text should be spell
// checked. Tokens with digits, single letters and runs like "aaaa" are
// skipped.
func IsCheckable(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if ContainsNumbers(s) {
		return false
	}
	return !IsRepetitive(s)
}

// IsRepetitive checks if a string is one byte repeated 3+ times ("aaa").
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
