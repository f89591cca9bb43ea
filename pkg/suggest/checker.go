// Package suggest is the core, checking words against a length-bucketed
// dictionary and ranking the closest records for words that are not in it.
package suggest

import (
	"runtime"
	"slices"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/match"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxDif            = 2
	DefaultParallelThreshold = 4096
	DefaultChunkRecords      = 2048
)

// Match is a suggested word and the number of edits the matcher spent on it.
type Match struct {
	Word  string
	Score int
}

// Result pairs a batch input word with its suggestions.
type Result struct {
	Word        string
	Suggestions []string
}

// Checker owns a dictionary and answers Check and Suggest queries against it.
//
// All read methods may be called concurrently. Add, SetMaxDif and
// SetDictionary must not run concurrently with anything else.
type Checker struct {
	dict              *dictionary.Dictionary
	format            dictionary.FileFormat
	maxWordLen        int
	maxDif            int
	workers           int
	parallelThreshold int
	chunkRecords      int
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxDif sets the total edit budget. Negative values mean 0.
func WithMaxDif(n int) Option {
	return func(c *Checker) {
		c.maxDif = max(n, 0)
	}
}

// WithWorkers bounds the goroutines used by one Suggest or batch call.
// Values below 1 keep GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithParallelThreshold sets how many candidate records a query window must
// hold before Suggest fans out.
func WithParallelThreshold(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.parallelThreshold = n
		}
	}
}

// WithChunkRecords sets how many records one parallel task scans.
func WithChunkRecords(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.chunkRecords = n
		}
	}
}

// WithFormat sets the dictionary file format used by New. The default is
// dictionary.FormatBucketed; dictionary.FormatUnknown detects it.
func WithFormat(f dictionary.FileFormat) Option {
	return func(c *Checker) {
		c.format = f
	}
}

// WithMaxWordLen sets the longest word Add accepts.
func WithMaxWordLen(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxWordLen = n
		}
	}
}

func newChecker(opts []Option) *Checker {
	c := &Checker{
		format:            dictionary.FormatBucketed,
		maxDif:            DefaultMaxDif,
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
		chunkRecords:      DefaultChunkRecords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New loads the dictionary at path and returns a Checker for it.
// A missing or malformed file returns a *dictionary.LoadError.
func New(path string, opts ...Option) (*Checker, error) {
	c := newChecker(opts)

	start := time.Now()
	d, err := dictionary.Open(path, c.format)
	if err != nil {
		return nil, err
	}
	c.SetDictionary(d)

	log.Debugf("Checker ready: %d words, max_dif=%d, workers=%d in %v",
		d.Words(), c.maxDif, c.workers, time.Since(start))
	return c, nil
}

// NewWithDictionary wraps an already built dictionary. The Checker takes
// ownership of d.
func NewWithDictionary(d *dictionary.Dictionary, opts ...Option) *Checker {
	c := newChecker(opts)
	c.SetDictionary(d)
	return c
}

// SetDictionary swaps the dictionary for subsequent calls.
func (c *Checker) SetDictionary(d *dictionary.Dictionary) {
	if d == nil {
		d = dictionary.New()
	}
	if c.maxWordLen > 0 {
		d.SetMaxWordLen(c.maxWordLen)
	}
	c.dict = d
}

// Dictionary returns the dictionary the Checker owns.
func (c *Checker) Dictionary() *dictionary.Dictionary { return c.dict }

// SetMaxDif changes the edit budget for subsequent Suggest calls.
func (c *Checker) SetMaxDif(n int) *Checker {
	c.maxDif = max(n, 0)
	return c
}

// MaxDif returns the current edit budget.
func (c *Checker) MaxDif() int { return c.maxDif }

// Workers returns the fan-out limit.
func (c *Checker) Workers() int { return c.workers }

// Check reports whether word is in the dictionary, ignoring case.
func (c *Checker) Check(word string) bool {
	return c.dict.Check(word)
}

// Find returns where word is stored.
func (c *Checker) Find(word string) (dictionary.Location, bool) {
	return c.dict.Find(word)
}

// Add inserts word into the dictionary. It reports false for words that are
// already present.
func (c *Checker) Add(word string) (bool, error) {
	added, err := c.dict.Insert(word)
	if err != nil {
		return false, err
	}
	if added {
		log.Debugf("Added %q (%d words)", utils.NormalizeWord(word), c.dict.Words())
	}
	return added, nil
}

// Suggest returns up to limit dictionary words closest to word, best first.
// A word that is in the dictionary returns only itself. limit 0 returns every
// match.
func (c *Checker) Suggest(word string, limit int) []string {
	return Words(c.SuggestMatches(word, limit))
}

// SuggestMatches is Suggest with the matcher score of every word.
func (c *Checker) SuggestMatches(word string, limit int) []Match {
	return c.suggest(word, limit, true)
}

// Words strips the scores from matches.
func Words(matches []Match) []string {
	words := make([]string, len(matches))
	for i, m := range matches {
		words[i] = m.Word
	}
	return words
}

// span is a contiguous run of records from one bucket sharing a budget.
type span struct {
	bucket *dictionary.Bucket
	budget match.Budget
	edge   bool
	from   int
	to     int
}

func (c *Checker) suggest(word string, limit int, parallel bool) []Match {
	w := utils.NormalizeWord(word)
	n := len(w)
	if n == 0 {
		return []Match{}
	}
	query := []byte(w)
	if _, found := c.dict.Lookup(query); found {
		return []Match{{Word: w}}
	}

	spans, total := c.window(n)
	if len(spans) == 0 {
		return []Match{}
	}

	var parts [][]Match
	if parallel && c.workers > 1 && total >= c.parallelThreshold {
		parts = c.scanParallel(spans, query)
	} else {
		parts = make([][]Match, len(spans))
		for i, s := range spans {
			parts[i] = scan(s, query)
		}
	}

	size := 0
	for _, p := range parts {
		size += len(p)
	}
	results := make([]Match, 0, size)
	for _, p := range parts {
		results = append(results, p...)
	}

	if len(results) > 1 {
		slices.SortStableFunc(results, func(a, b Match) int {
			return a.Score - b.Score
		})
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// window collects the non-empty buckets whose length is within maxDif of n.
func (c *Checker) window(n int) ([]span, int) {
	lo := max(n-c.maxDif, 1)
	hi := min(n+c.maxDif, c.dict.MaxLen())

	var spans []span
	total := 0
	for length := lo; length <= hi; length++ {
		b, ok := c.dict.Bucket(length)
		if !ok || b.Empty() {
			continue
		}
		d := length - n
		spans = append(spans, span{
			bucket: b,
			budget: match.BudgetFor(length, n, c.maxDif),
			edge:   d == c.maxDif || -d == c.maxDif,
			to:     b.Count(),
		})
		total += b.Count()
	}
	return spans, total
}

// scanParallel splits spans into chunks of chunkRecords and scans them on up
// to workers goroutines. Each chunk writes its own slot, so the result order
// does not depend on scheduling.
func (c *Checker) scanParallel(spans []span, query []byte) [][]Match {
	var chunks []span
	for _, s := range spans {
		for from := s.from; from < s.to; from += c.chunkRecords {
			ch := s
			ch.from = from
			ch.to = min(from+c.chunkRecords, s.to)
			chunks = append(chunks, ch)
		}
	}

	parts := make([][]Match, len(chunks))
	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, ch := range chunks {
		g.Go(func() error {
			parts[i] = scan(ch, query)
			return nil
		})
	}
	_ = g.Wait()
	return parts
}

func scan(s span, query []byte) []Match {
	first, last := query[0], query[len(query)-1]
	var out []Match
	for i := s.from; i < s.to; i++ {
		rec := s.bucket.Record(i)
		if s.edge {
			rf, rl := rec[0], rec[len(rec)-1]
			if rf != first && rf != last && rl != first && rl != last {
				continue
			}
		}
		if ok, score := match.MatchesBudget(rec, query, s.budget); ok {
			out = append(out, Match{Word: string(rec), Score: score})
		}
	}
	return out
}

// Stats describes the loaded dictionary and the engine settings.
func (c *Checker) Stats() map[string]int {
	s := c.dict.Stats()
	return map[string]int{
		"words":           s.Words,
		"buckets":         s.Buckets,
		"nonEmptyBuckets": s.NonEmpty,
		"maxLen":          s.MaxLen,
		"bytes":           s.Bytes,
		"maxWordLen":      c.dict.MaxWordLen(),
		"maxDif":          c.maxDif,
		"workers":         c.workers,
	}
}
