package utils

// WordFilter drops repeated words from a stream. It is not safe for
// concurrent use.
type WordFilter struct {
	seenWords map[string]struct{}
}

// NewWordFilter creates a filter sized for roughly capacity distinct words.
func NewWordFilter(capacity int) *WordFilter {
	return &WordFilter{seenWords: make(map[string]struct{}, capacity)}
}

// ShouldInclude reports whether word has not been seen before and marks it
// as seen. Words are compared after CleanWord.
func (f *WordFilter) ShouldInclude(word string) bool {
	key := CleanWord(word)
	if _, ok := f.seenWords[key]; ok {
		return false
	}
	f.seenWords[key] = struct{}{}
	return true
}

// Seen returns how many distinct words passed the filter.
func (f *WordFilter) Seen() int {
	return len(f.seenWords)
}
