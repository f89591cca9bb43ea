package dictionary

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
)

// Insert splices word into its bucket at the sorted position and reports
// whether it was added. Words already present are left alone.
//
// Insert copies the whole bucket, so it is O(bucket size). It must not run
// concurrently with any read of the dictionary.
func (d *Dictionary) Insert(word string) (bool, error) {
	if !utf8.ValidString(word) || strings.ContainsAny(word, "\r\n") {
		return false, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	w := utils.NormalizeWord(word)
	if w == "" {
		return false, ErrEmptyWord
	}
	n := len(w)
	if n > d.maxWordLen {
		return false, fmt.Errorf("%w: %d bytes (max %d)", ErrLengthNotSupported, n, d.maxWordLen)
	}
	d.grow(n)

	loc, found := d.Lookup([]byte(w))
	if found {
		return false, nil
	}

	b := &d.buckets[n-1]
	blob := make([]byte, 0, len(b.blob)+n)
	blob = append(blob, b.blob[:loc.Start]...)
	blob = append(blob, w...)
	blob = append(blob, b.blob[loc.Start:]...)
	b.blob = blob
	b.count++
	d.words++
	return true, nil
}
