package suggest

import "github.com/bastiangx/wordcheck/pkg/dictionary"

// Suggester defines the interface for spell checking engines
type Suggester interface {
	// Check reports whether word is in the dictionary
	Check(word string) bool

	// Suggest returns up to limit corrections for word, best first
	Suggest(word string, limit int) []string

	// SuggestMatches is Suggest with matcher scores
	SuggestMatches(word string, limit int) []Match

	// Add inserts a word and reports whether it was new
	Add(word string) (bool, error)

	// SetDictionary swaps the dictionary, e.g. after a reload
	SetDictionary(d *dictionary.Dictionary)

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}

var (
	_ Suggester = (*Checker)(nil)
	_ Suggester = (*CachedChecker)(nil)
)
