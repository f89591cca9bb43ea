package suggest

import (
	"golang.org/x/sync/errgroup"
)

// BatchSuggest runs Suggest for every word and keeps the input order.
func (c *Checker) BatchSuggest(words []string, limit int) []Result {
	results := make([]Result, len(words))
	for i, w := range words {
		results[i] = Result{Word: w, Suggestions: c.Suggest(w, limit)}
	}
	return results
}

// BatchSuggestParallel is BatchSuggest with the words spread over up to
// Workers goroutines. The output is identical to BatchSuggest.
func (c *Checker) BatchSuggestParallel(words []string, limit int) []Result {
	results := make([]Result, len(words))
	c.forEachParallel(words, func(i int, w string) {
		results[i] = Result{Word: w, Suggestions: Words(c.suggest(w, limit, false))}
	})
	return results
}

// BatchSuggestWith calls fn with each word's suggestions, in input order.
func (c *Checker) BatchSuggestWith(words []string, limit int, fn func(word string, suggestions []string)) {
	for _, w := range words {
		fn(w, c.Suggest(w, limit))
	}
}

// BatchSuggestParallelWith calls fn from worker goroutines as soon as a
// word is done. fn must be safe for concurrent use and sees words in no
// particular order.
func (c *Checker) BatchSuggestParallelWith(words []string, limit int, fn func(word string, suggestions []string)) {
	c.forEachParallel(words, func(_ int, w string) {
		fn(w, Words(c.suggest(w, limit, false)))
	})
}

// forEachParallel calls fn for every word on a bounded errgroup. Each word's
// own Suggest stays sequential so batches do not multiply goroutines.
func (c *Checker) forEachParallel(words []string, fn func(i int, w string)) {
	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, w := range words {
		g.Go(func() error {
			fn(i, w)
			return nil
		})
	}
	_ = g.Wait()
}
