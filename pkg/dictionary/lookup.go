package dictionary

import (
	"bytes"

	"github.com/bastiangx/wordcheck/internal/utils"
)

// Location points at one record. On a miss returned by FindClosest, Index and
// Start are the insertion point and End == Start.
type Location struct {
	Length int
	Index  int
	Start  int
	End    int
}

// Check reports whether word is in the dictionary.
func (d *Dictionary) Check(word string) bool {
	_, found := d.Find(word)
	return found
}

// Find lowercases word and looks it up.
func (d *Dictionary) Find(word string) (Location, bool) {
	loc, found := d.FindClosest(word)
	if !found {
		return Location{}, false
	}
	return loc, true
}

// FindClosest is Find that also reports where a missing word would be
// inserted.
func (d *Dictionary) FindClosest(word string) (Location, bool) {
	return d.Lookup([]byte(utils.NormalizeWord(word)))
}

// Lookup searches for an already normalized word.
func (d *Dictionary) Lookup(word []byte) (Location, bool) {
	n := len(word)
	loc := Location{Length: n}
	b, ok := d.Bucket(n)
	if !ok || b.count == 0 {
		return loc, false
	}
	idx, found := searchRecords(b.blob, word)
	loc.Index = idx
	loc.Start = idx * n
	loc.End = loc.Start
	if found {
		loc.End += n
	}
	return loc, found
}

// Word returns the text of the record at loc.
func (d *Dictionary) Word(loc Location) string {
	b, ok := d.Bucket(loc.Length)
	if !ok || loc.End > len(b.blob) || loc.Start >= loc.End {
		return ""
	}
	return string(b.blob[loc.Start:loc.End])
}

// searchRecords binary searches the fixed-width records of blob for word.
// It returns the matching record index, or the lower bound insertion index.
func searchRecords(blob, word []byte) (int, bool) {
	n := len(word)
	lo, hi := 0, len(blob)/n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		off := mid * n
		switch c := bytes.Compare(word, blob[off:off+n]); {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false
}
