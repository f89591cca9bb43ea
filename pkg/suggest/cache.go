package suggest

import (
	"math"
	"sync"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cacheEntry holds the matches computed for one query at one limit.
type cacheEntry struct {
	limit   int
	matches []Match
}

// Cache remembers suggestion results per normalized query word. Entries are
// kept in a patricia trie and the least recently used one is evicted when the
// cache is full.
type Cache struct {
	trie        *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxWords    int
	mu          sync.Mutex
}

// NewCache creates a cache for up to maxWords queries. maxWords <= 0 disables
// caching.
func NewCache(maxWords int) *Cache {
	return &Cache{
		trie:       patricia.NewTrie(),
		accessTime: make(map[string]int64, max(maxWords, 0)),
		maxWords:   maxWords,
	}
}

// Get returns cached matches for query when the cached run covers limit:
// an unlimited run serves any limit, a limited one serves smaller limits.
func (hc *Cache) Get(query string, limit int) ([]Match, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.trie.Get(patricia.Prefix(query))
	if item == nil {
		hc.misses++
		return nil, false
	}
	entry := item.(*cacheEntry)
	if entry.limit != 0 && (limit == 0 || limit > entry.limit) {
		hc.misses++
		return nil, false
	}

	hc.markAccessed(query)
	hc.hits++
	matches := entry.matches
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return cloneMatches(matches), true
}

// Put stores matches computed for query with limit.
func (hc *Cache) Put(query string, limit int, matches []Match) {
	if hc.maxWords <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := patricia.Prefix(query)
	if _, exists := hc.accessTime[query]; !exists && len(hc.accessTime) >= hc.maxWords {
		hc.evictLRU()
	}
	hc.trie.Set(key, &cacheEntry{limit: limit, matches: cloneMatches(matches)})
	hc.markAccessed(query)
}

// Search lists the cached queries starting with prefix.
func (hc *Cache) Search(prefix string) []string {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var results []string
	err := hc.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		results = append(results, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error searching suggestion cache: %v", err)
	}
	return results
}

// Purge drops every entry.
func (hc *Cache) Purge() {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if n := len(hc.accessTime); n > 0 {
		log.Debugf("Purged %d cached queries", n)
	}
	hc.trie = patricia.NewTrie()
	hc.accessTime = make(map[string]int64, max(hc.maxWords, 0))
}

// Len returns the number of cached queries.
func (hc *Cache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

// Stats reports the cache size, capacity, hits and misses.
func (hc *Cache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"cachedQueries": len(hc.accessTime),
		"maxQueries":    hc.maxWords,
		"cacheHits":     int(hc.hits),
		"cacheMisses":   int(hc.misses),
	}
}

func (hc *Cache) markAccessed(query string) {
	hc.accessCount++
	hc.accessTime[query] = hc.accessCount
}

func (hc *Cache) evictLRU() {
	var oldestQuery string
	var oldestTime int64 = math.MaxInt64

	for query, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestQuery = query
		}
	}

	if oldestQuery != "" {
		hc.trie.Delete(patricia.Prefix(oldestQuery))
		delete(hc.accessTime, oldestQuery)
		log.Debugf("Evicted query '%s' from suggestion cache", oldestQuery)
	}
}

func cloneMatches(m []Match) []Match {
	if m == nil {
		return []Match{}
	}
	out := make([]Match, len(m))
	copy(out, m)
	return out
}

// CachedChecker answers Suggest from a Cache before running the engine.
// Add and SetMaxDif purge the cache.
type CachedChecker struct {
	*Checker
	cache *Cache
}

// NewCached wraps c with a cache of size queries.
func NewCached(c *Checker, size int) *CachedChecker {
	return &CachedChecker{Checker: c, cache: NewCache(size)}
}

// Cache returns the underlying cache.
func (cc *CachedChecker) Cache() *Cache { return cc.cache }

// Suggest is Checker.Suggest served from the cache when possible.
func (cc *CachedChecker) Suggest(word string, limit int) []string {
	return Words(cc.SuggestMatches(word, limit))
}

// SuggestMatches caches results by normalized query and limit.
func (cc *CachedChecker) SuggestMatches(word string, limit int) []Match {
	key := utils.NormalizeWord(word)
	if key == "" {
		return cc.Checker.SuggestMatches(word, limit)
	}
	if matches, ok := cc.cache.Get(key, limit); ok {
		return matches
	}
	matches := cc.Checker.SuggestMatches(word, limit)
	cc.cache.Put(key, limit, matches)
	return matches
}

// Add inserts word and purges the cache when it was new.
func (cc *CachedChecker) Add(word string) (bool, error) {
	added, err := cc.Checker.Add(word)
	if added {
		cc.cache.Purge()
	}
	return added, err
}

// SetMaxDif changes the edit budget, purging the cache if it changed.
func (cc *CachedChecker) SetMaxDif(n int) *CachedChecker {
	if n != cc.Checker.MaxDif() {
		cc.Checker.SetMaxDif(n)
		cc.cache.Purge()
	}
	return cc
}

// Stats merges the checker and cache stats.
func (cc *CachedChecker) Stats() map[string]int {
	stats := cc.Checker.Stats()
	for k, v := range cc.cache.Stats() {
		stats[k] = v
	}
	return stats
}

// SetDictionary swaps the dictionary and purges the cache.
func (cc *CachedChecker) SetDictionary(d *dictionary.Dictionary) {
	cc.Checker.SetDictionary(d)
	cc.cache.Purge()
}
