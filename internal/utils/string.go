package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a word found in free text with its byte offset.
type Token struct {
	Text   string
	Offset int
}

// Tokenize splits text into words. A word is a run of letters, digits and
// inner apostrophes; everything else separates words.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if IsWordRune(r) || (r == '\'' && start >= 0 && nextIsLetter(text, i+1)) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: text[start:i], Offset: start})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Offset: start})
	}
	return tokens
}

func nextIsLetter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

// MatchCase gives suggestion the capitalisation pattern of original:
// "Teh" -> "The", "TEH" -> "THE". Other patterns keep suggestion as is.
func MatchCase(original, suggestion string) string {
	if original == "" || suggestion == "" {
		return suggestion
	}
	hasLower := strings.IndexFunc(original, unicode.IsLower) >= 0
	hasUpper := strings.IndexFunc(original, unicode.IsUpper) >= 0
	switch {
	case hasUpper && !hasLower && utf8.RuneCountInString(original) > 1:
		return strings.ToUpper(suggestion)
	case hasUpper:
		first, _ := utf8.DecodeRuneInString(original)
		if !unicode.IsUpper(first) {
			return suggestion
		}
		r, size := utf8.DecodeRuneInString(suggestion)
		return string(unicode.ToUpper(r)) + suggestion[size:]
	}
	return suggestion
}
