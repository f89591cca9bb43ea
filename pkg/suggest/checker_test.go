package suggest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/match"
	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = "3\nfoxthe\n5\nbrownquick\n"

func scenarioChecker(t testing.TB, opts ...Option) *Checker {
	t.Helper()
	d, err := dictionary.Parse(strings.NewReader(scenario))
	require.NoError(t, err)
	return NewWithDictionary(d, opts...)
}

// generatedDictionary holds every string of length 2..4 over "abcde".
func generatedDictionary(t testing.TB) *dictionary.Dictionary {
	t.Helper()
	var words []string
	var gen func(prefix string, n int)
	gen = func(prefix string, n int) {
		if n == 0 {
			words = append(words, prefix)
			return
		}
		for _, r := range "abcde" {
			gen(prefix+string(r), n-1)
		}
	}
	for n := 2; n <= 4; n++ {
		gen("", n)
	}
	d, err := dictionary.FromWords(words)
	require.NoError(t, err)
	return d
}

var generatedQueries = []string{"abz", "zab", "xyz", "aexd", "eeeee", "az", "bbbbz", "q"}

func TestScenario(t *testing.T) {
	c := scenarioChecker(t)

	assert.True(t, c.Check("fox"))
	assert.False(t, c.Check("foxx"))

	testCases := []struct {
		query string
		want  []Match
	}{
		{"foz", []Match{{Word: "fox", Score: 1}}},
		{"quik", []Match{{Word: "quick", Score: 1}}},
		{"teh", []Match{{Word: "the", Score: 2}}},
		{"xyzzy", []Match{}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, c.SuggestMatches(tc.query, 0))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := scenarioChecker(t)

	for _, w := range []string{"the", "quick", "brown", "fox"} {
		for _, q := range []string{w, strings.ToUpper(w), strings.ToUpper(w[:1]) + w[1:]} {
			assert.True(t, c.Check(q), q)
			assert.Equal(t, []string{w}, c.Suggest(q, 0), q)
			assert.Equal(t, []string{w}, c.Suggest(q, 3), q)
		}
	}
}

func TestQueriesAreTotal(t *testing.T) {
	c := scenarioChecker(t)

	for _, q := range []string{"", "a", "abcdefghijklmnopqrstuvwxyz", "\xff\xfe", "日本語"} {
		assert.False(t, c.Check(q), q)
		assert.NotNil(t, c.Suggest(q, 0), q)
		_, found := c.Find(q)
		assert.False(t, found, q)
	}
	assert.Empty(t, c.Suggest("", 5))
}

func TestEmptyBucketNeighbours(t *testing.T) {
	c := scenarioChecker(t)

	// nothing of length 4 is stored, so "foxe" only sees buckets 3 and 5
	_, ok := c.Dictionary().Bucket(4)
	require.True(t, ok)
	assert.False(t, c.Check("foxe"))
	assert.Equal(t, []string{"fox"}, c.Suggest("foxe", 0))
}

func TestSetMaxDif(t *testing.T) {
	c := scenarioChecker(t)
	assert.Equal(t, DefaultMaxDif, c.MaxDif())

	assert.Empty(t, c.SetMaxDif(0).Suggest("foz", 0))
	assert.Equal(t, []string{"fox"}, c.SetMaxDif(1).Suggest("foz", 0))

	c.SetMaxDif(-4)
	assert.Equal(t, 0, c.MaxDif())
}

func TestRankingAndLimit(t *testing.T) {
	d := generatedDictionary(t)
	c := NewWithDictionary(d)

	for _, q := range generatedQueries {
		all := c.SuggestMatches(q, 0)
		for i := 1; i < len(all); i++ {
			assert.LessOrEqual(t, all[i-1].Score, all[i].Score, "%s: unsorted at %d", q, i)
		}
		for _, limit := range []int{1, 2, 5, 50} {
			got := c.SuggestMatches(q, limit)
			want := all
			if len(want) > limit {
				want = want[:limit]
			}
			assert.Equal(t, want, got, "%s limit %d", q, limit)
		}
	}
}

func TestScoresBoundLevenshtein(t *testing.T) {
	c := NewWithDictionary(generatedDictionary(t))

	for _, q := range generatedQueries {
		for _, m := range c.SuggestMatches(q, 0) {
			dist := edlib.LevenshteinDistance(q, m.Word)
			assert.LessOrEqual(t, dist, m.Score, "%s -> %s", q, m.Word)
			assert.LessOrEqual(t, m.Score, c.MaxDif(), "%s -> %s", q, m.Word)
		}
	}
}

func TestMonotonicMaxDif(t *testing.T) {
	d := generatedDictionary(t)

	for _, q := range generatedQueries {
		prev := map[string]bool{}
		for maxDif := 0; maxDif <= 3; maxDif++ {
			c := NewWithDictionary(d, WithMaxDif(maxDif))
			cur := map[string]bool{}
			for _, w := range c.Suggest(q, 0) {
				cur[w] = true
			}
			for w := range prev {
				assert.True(t, cur[w], "%s: %q lost going to max_dif %d", q, w, maxDif)
			}
			prev = cur
		}
	}
}

func TestParallelDeterminism(t *testing.T) {
	d := generatedDictionary(t)
	base := NewWithDictionary(d, WithWorkers(1))

	for workers := 1; workers <= 8; workers++ {
		c := NewWithDictionary(d,
			WithWorkers(workers),
			WithParallelThreshold(1),
			WithChunkRecords(7),
		)
		for _, q := range generatedQueries {
			assert.Equal(t, base.SuggestMatches(q, 0), c.SuggestMatches(q, 0), "workers=%d query=%s", workers, q)
		}
		assert.Equal(t, base.BatchSuggest(generatedQueries, 3), c.BatchSuggestParallel(generatedQueries, 3))
	}
}

func TestBatchVariants(t *testing.T) {
	c := scenarioChecker(t)
	words := []string{"foz", "The", "quik", "zzzzzzzzzz"}

	want := []Result{
		{Word: "foz", Suggestions: []string{"fox"}},
		{Word: "The", Suggestions: []string{"the"}},
		{Word: "quik", Suggestions: []string{"quick"}},
		{Word: "zzzzzzzzzz", Suggestions: []string{}},
	}
	assert.Equal(t, want, c.BatchSuggest(words, 0))
	assert.Equal(t, want, c.BatchSuggestParallel(words, 0))

	var seq []Result
	c.BatchSuggestWith(words, 0, func(w string, s []string) {
		seq = append(seq, Result{Word: w, Suggestions: s})
	})
	assert.Equal(t, want, seq)

	var mu sync.Mutex
	got := map[string][]string{}
	c.BatchSuggestParallelWith(words, 0, func(w string, s []string) {
		mu.Lock()
		defer mu.Unlock()
		got[w] = s
	})
	require.Len(t, got, len(words))
	for _, r := range want {
		assert.Equal(t, r.Suggestions, got[r.Word])
	}

	assert.Empty(t, c.BatchSuggest(nil, 0))
}

func TestAdd(t *testing.T) {
	c := scenarioChecker(t, WithMaxWordLen(12))

	assert.Equal(t, []string{"fox"}, c.Suggest("fiz", 0))

	added, err := c.Add("Fix")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, c.Check("fix"))
	assert.Equal(t, []string{"fix"}, c.Suggest("FIX", 0))
	assert.Contains(t, c.Suggest("fiz", 0), "fix")

	added, err = c.Add("fox")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = c.Add("lightweight")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 11, c.Dictionary().MaxLen())

	_, err = c.Add("internationalization")
	assert.ErrorIs(t, err, dictionary.ErrLengthNotSupported)

	_, err = c.Add("")
	assert.ErrorIs(t, err, dictionary.ErrEmptyWord)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))

	c, err := New(path, WithMaxDif(1), WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 1, c.MaxDif())
	assert.Equal(t, 3, c.Workers())
	assert.Equal(t, 4, c.Stats()["words"])

	list := filepath.Join(dir, "words.lst")
	require.NoError(t, os.WriteFile(list, []byte("fox\nthe\nquick\nbrown\n"), 0644))
	c, err = New(list, WithFormat(dictionary.FormatWordList))
	require.NoError(t, err)
	assert.True(t, c.Check("brown"))

	_, err = New(filepath.Join(dir, "missing.txt"))
	var le *dictionary.LoadError
	assert.ErrorAs(t, err, &le)
}

// records whose length differs by exactly max_dif must share their first or
// last byte with the query's first or last byte
func TestEdgePrefilter(t *testing.T) {
	d, err := dictionary.FromWords([]string{"xabx", "aabx", "zz"})
	require.NoError(t, err)
	c := NewWithDictionary(d, WithMaxDif(2))

	ok, score := match.MatchesBudget([]byte("xabx"), []byte("ab"), match.BudgetFor(4, 2, 2))
	require.True(t, ok, "matcher alone accepts xabx")
	assert.Equal(t, 2, score)

	got := c.SuggestMatches("ab", 0)
	assert.Equal(t, []Match{{Word: "zz", Score: 2}, {Word: "aabx", Score: 2}}, got)
	assert.NotContains(t, Words(got), "xabx")

	// same length difference below max_dif is not filtered
	c.SetMaxDif(3)
	assert.Contains(t, c.Suggest("ab", 0), "xabx")
}

func TestNewRejectsDamagedFile(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"short.txt":  "3\nfoxth\n",
		"broken.txt": "3\nfoxth\n5\nbrownquick\n",
		"header.txt": "x\nfoxthe\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := New(path)
		var le *dictionary.LoadError
		require.ErrorAs(t, err, &le, name)
		assert.ErrorIs(t, err, dictionary.ErrMalformed, name)

		if name != "header.txt" {
			_, err = New(path, WithFormat(dictionary.FormatUnknown))
			assert.ErrorIs(t, err, dictionary.ErrMalformed, name)
		}
	}
}

func BenchmarkSuggest(b *testing.B) {
	d := generatedDictionary(b)
	for _, workers := range []int{1, 4} {
		c := NewWithDictionary(d, WithWorkers(workers), WithParallelThreshold(1), WithChunkRecords(64))
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Suggest(generatedQueries[i%len(generatedQueries)], 10)
			}
		})
	}
}
