/*
Package dictionary holds the length-bucketed word store.

Every word of byte length L lives in bucket L-1 as a fixed-width record inside
one contiguous blob, and the records of a bucket are sorted by raw bytes.
Lengths with no words keep an empty bucket so a bucket is always found by
indexing with len(word)-1.

	bucket 3 (length 3): "foxthe"       -> fox, the
	bucket 4 (length 4): ""             (placeholder)
	bucket 5 (length 5): "brownquick"   -> brown, quick

Exact lookup is a binary search over the records of one bucket. The blob is
validated once when the dictionary is built (record size, UTF-8, ordering),
so lookups never re-check it.
*/
package dictionary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// DefaultMaxWordLen is the longest word Insert accepts unless the loaded
// dictionary already holds longer words.
const DefaultMaxWordLen = 64

// maxRecordLen caps length headers so a corrupt file cannot size the bucket
// table arbitrarily.
const maxRecordLen = 1 << 16

var (
	ErrMalformed          = errors.New("malformed dictionary")
	ErrUnsorted           = errors.New("words not sorted")
	ErrInvalidUTF8        = errors.New("invalid UTF-8 in dictionary")
	ErrEmpty              = errors.New("dictionary has no words")
	ErrEmptyWord          = errors.New("empty word")
	ErrInvalidWord        = errors.New("invalid word")
	ErrLengthNotSupported = errors.New("word length not supported")
)

// Bucket stores all words of one byte length.
type Bucket struct {
	blob   []byte
	length int
	count  int
}

// Length returns the byte length of every record in the bucket.
func (b *Bucket) Length() int { return b.length }

// Count returns the number of records.
func (b *Bucket) Count() int { return b.count }

// Empty reports whether the bucket is a placeholder.
func (b *Bucket) Empty() bool { return b.count == 0 }

// Blob returns the raw record bytes. Callers must not modify it.
func (b *Bucket) Blob() []byte { return b.blob }

// Record returns the i-th record.
func (b *Bucket) Record(i int) []byte {
	off := i * b.length
	return b.blob[off : off+b.length]
}

// validate checks the record size, UTF-8 and ordering invariants.
func (b *Bucket) validate() error {
	if b.length <= 0 {
		return fmt.Errorf("%w: bucket length %d", ErrMalformed, b.length)
	}
	if len(b.blob) != b.length*b.count {
		return fmt.Errorf("%w: bucket %d holds %d bytes, want %d",
			ErrMalformed, b.length, len(b.blob), b.length*b.count)
	}
	var prev []byte
	for i := 0; i < b.count; i++ {
		rec := b.Record(i)
		if !utf8.Valid(rec) {
			return fmt.Errorf("%w: bucket %d record %d", ErrInvalidUTF8, b.length, i)
		}
		if prev != nil && bytes.Compare(prev, rec) > 0 {
			return fmt.Errorf("%w: bucket %d: %q before %q", ErrUnsorted, b.length, prev, rec)
		}
		prev = rec
	}
	return nil
}

// Dictionary is the ordered list of buckets, indexed by length-1.
type Dictionary struct {
	buckets    []Bucket
	words      int
	maxWordLen int
}

// Stats describes a loaded dictionary.
type Stats struct {
	Buckets     int
	NonEmpty    int
	Words       int
	MaxLen      int
	Bytes       int
	Fingerprint uint64
}

// New returns an empty dictionary that accepts Insert up to DefaultMaxWordLen.
func New() *Dictionary {
	return &Dictionary{maxWordLen: DefaultMaxWordLen}
}

// newFromBlobs builds a dictionary from blobs indexed by length-1 and
// validates every bucket.
func newFromBlobs(blobs [][]byte) (*Dictionary, error) {
	for i, blob := range blobs {
		if len(blob)%(i+1) != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformed, len(blob), i+1)
		}
	}
	d := assemble(blobs)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// assemble wraps blobs whose sizes are already known to be record aligned.
func assemble(blobs [][]byte) *Dictionary {
	d := New()
	d.buckets = make([]Bucket, len(blobs))
	for i, blob := range blobs {
		length := i + 1
		d.buckets[i] = Bucket{blob: blob, length: length, count: len(blob) / length}
		d.words += d.buckets[i].count
	}
	d.maxWordLen = max(d.maxWordLen, len(d.buckets))
	return d
}

// MaxLen returns the longest indexed word length.
func (d *Dictionary) MaxLen() int { return len(d.buckets) }

// Words returns the total number of words.
func (d *Dictionary) Words() int { return d.words }

// MaxWordLen returns the insertion limit.
func (d *Dictionary) MaxWordLen() int { return d.maxWordLen }

// SetMaxWordLen changes the insertion limit. It never drops below MaxLen.
func (d *Dictionary) SetMaxWordLen(n int) {
	d.maxWordLen = min(max(n, d.MaxLen()), maxRecordLen)
}

// Bucket returns the bucket for words of the given byte length.
func (d *Dictionary) Bucket(length int) (*Bucket, bool) {
	if length <= 0 || length > len(d.buckets) {
		return nil, false
	}
	return &d.buckets[length-1], true
}

// Buckets returns every bucket in length order. Callers must not modify them.
func (d *Dictionary) Buckets() []Bucket { return d.buckets }

// Validate re-checks every bucket invariant.
func (d *Dictionary) Validate() error {
	words := 0
	for i := range d.buckets {
		if d.buckets[i].length != i+1 {
			return fmt.Errorf("%w: bucket %d has length %d", ErrMalformed, i+1, d.buckets[i].length)
		}
		if err := d.buckets[i].validate(); err != nil {
			return err
		}
		words += d.buckets[i].count
	}
	if words != d.words {
		return fmt.Errorf("%w: word count %d, buckets hold %d", ErrMalformed, d.words, words)
	}
	return nil
}

// Fingerprint hashes every bucket's length and blob.
func (d *Dictionary) Fingerprint() uint64 {
	h := xxhash.New()
	var hdr [binary.MaxVarintLen64]byte
	for i := range d.buckets {
		b := &d.buckets[i]
		if b.count == 0 {
			continue
		}
		n := binary.PutUvarint(hdr[:], uint64(b.length))
		h.Write(hdr[:n])
		h.Write(b.blob)
	}
	return h.Sum64()
}

// Stats summarises the dictionary.
func (d *Dictionary) Stats() Stats {
	s := Stats{
		Buckets:     len(d.buckets),
		Words:       d.words,
		MaxLen:      len(d.buckets),
		Fingerprint: d.Fingerprint(),
	}
	for i := range d.buckets {
		if d.buckets[i].count > 0 {
			s.NonEmpty++
		}
		s.Bytes += len(d.buckets[i].blob)
	}
	return s
}

// grow extends the bucket table with empty buckets up to length.
func (d *Dictionary) grow(length int) {
	for l := len(d.buckets) + 1; l <= length; l++ {
		d.buckets = append(d.buckets, Bucket{length: l})
	}
}
