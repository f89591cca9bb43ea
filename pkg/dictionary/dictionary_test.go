package dictionary

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = "3\nfoxthe\n5\nbrownquick\n"

func mustParse(t *testing.T, s string) *Dictionary {
	t.Helper()
	d, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return d
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseScenario(t *testing.T) {
	d := mustParse(t, scenario)

	assert.Equal(t, 5, d.MaxLen())
	assert.Equal(t, 4, d.Words())
	for _, length := range []int{1, 2, 4} {
		b, ok := d.Bucket(length)
		require.True(t, ok, "length %d must be indexable", length)
		assert.True(t, b.Empty(), "length %d should be a placeholder", length)
	}
	b, ok := d.Bucket(5)
	require.True(t, ok)
	assert.Equal(t, 2, b.Count())
	assert.Equal(t, "quick", string(b.Record(1)))
	assert.NoError(t, d.Validate())
}

func TestFind(t *testing.T) {
	d := mustParse(t, scenario)

	testCases := []struct {
		word  string
		found bool
		loc   Location
	}{
		{"the", true, Location{Length: 3, Index: 1, Start: 3, End: 6}},
		{"THE", true, Location{Length: 3, Index: 1, Start: 3, End: 6}},
		{"Fox", true, Location{Length: 3, Index: 0, Start: 0, End: 3}},
		{"quick", true, Location{Length: 5, Index: 1, Start: 5, End: 10}},
		{"foxx", false, Location{}},
		{"", false, Location{}},
		{"abcdefghij", false, Location{}},
		{"ab", false, Location{}},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			loc, found := d.Find(tc.word)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.loc, loc)
			assert.Equal(t, tc.found, d.Check(tc.word))
			if found {
				assert.Equal(t, strings.ToLower(tc.word), d.Word(loc))
			}
		})
	}
}

func TestFindClosest(t *testing.T) {
	d := mustParse(t, scenario)

	testCases := []struct {
		word  string
		index int
	}{
		{"aaa", 0},
		{"fry", 1},
		{"zzz", 2},
		{"cloud", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			loc, found := d.FindClosest(tc.word)
			require.False(t, found)
			assert.Equal(t, tc.index, loc.Index)
			assert.Equal(t, tc.index*len(tc.word), loc.Start)
			assert.Equal(t, loc.Start, loc.End)
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		err   error
		line  int
	}{
		{"bad header", "x\nabc\n", ErrMalformed, 1},
		{"zero header", "0\n\n", ErrMalformed, 1},
		{"not a multiple", "3\nab\n", ErrMalformed, 2},
		{"unsorted", "3\nthefox\n", ErrUnsorted, 2},
		{"descending headers", "5\nquick\n3\nfox\n", ErrMalformed, 3},
		{"duplicate header", "3\nfox\n3\nthe\n", ErrMalformed, 3},
		{"missing words line", "3\nfox\n5\n", ErrMalformed, 4},
		{"bad record later", "3\nfox\n5\nqui\n", ErrMalformed, 4},
		{"invalid utf8", "2\n\xff\xfe\n", ErrInvalidUTF8, 2},
		{"empty input", "", ErrEmpty, 0},
		{"only empty buckets", "3\n\n", ErrEmpty, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.line, le.Line)
		})
	}
}

func TestParseTolerance(t *testing.T) {
	testCases := map[string]string{
		"blank line between pairs": "3\nfoxthe\n\n5\nbrownquick\n",
		"crlf":                     "3\r\nfoxthe\r\n5\r\nbrownquick\r\n",
		"no trailing newline":      "3\nfoxthe\n5\nbrownquick",
		"padded lines":             " 3 \n foxthe \n5\nbrownquick\n",
	}

	want := mustParse(t, scenario).Fingerprint()
	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, want, d.Fingerprint())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Path, "nope.txt")
}

func TestLoadReportsPath(t *testing.T) {
	path := writeFile(t, "bad.txt", "3\nab\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2")
}

func TestInsert(t *testing.T) {
	d := mustParse(t, scenario)

	added, err := d.Insert("Cat")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, d.Check("cat"))

	added, err = d.Insert("zoo")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = d.Insert("the")
	require.NoError(t, err)
	assert.False(t, added)

	b, _ := d.Bucket(3)
	assert.Equal(t, "catfoxthezoo", string(b.Blob()))
	assert.Equal(t, 6, d.Words())
	assert.NoError(t, d.Validate())
}

func TestInsertGrowsTable(t *testing.T) {
	d := mustParse(t, scenario)

	added, err := d.Insert("absolute")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 8, d.MaxLen())

	for _, length := range []int{6, 7} {
		b, ok := d.Bucket(length)
		require.True(t, ok)
		assert.True(t, b.Empty())
	}
	assert.True(t, d.Check("ABSOLUTE"))
	assert.NoError(t, d.Validate())
}

func TestInsertErrors(t *testing.T) {
	d := mustParse(t, scenario)
	d.SetMaxWordLen(10)

	_, err := d.Insert("")
	assert.ErrorIs(t, err, ErrEmptyWord)

	_, err = d.Insert("\xff\xfe")
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = d.Insert("two\nlines")
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = d.Insert("incomprehensible")
	assert.ErrorIs(t, err, ErrLengthNotSupported)
	assert.Equal(t, 5, d.MaxLen())
}

func TestInsertIntoEmpty(t *testing.T) {
	d := New()
	for _, w := range []string{"pear", "apple", "fig", "plum"} {
		_, err := d.Insert(w)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, d.Words())
	assert.Equal(t, "3\nfig\n4\npearplum\n5\napple\n", d.String())
}

func TestFromWordsRoundTrip(t *testing.T) {
	d, err := FromWords([]string{" The", "quick", "BROWN", "fox", "the", "", "naïve"})
	require.NoError(t, err)
	assert.Equal(t, 5, d.Words())

	var sb strings.Builder
	_, err = d.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, "3\nfoxthe\n5\nbrownquick\n6\nnaïve\n", sb.String())

	back := mustParse(t, sb.String())
	assert.Equal(t, d.Fingerprint(), back.Fingerprint())
	assert.True(t, back.Check("naïve"))
}

func TestFromWordsEmpty(t *testing.T) {
	_, err := FromWords([]string{"", "  "})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDetectFileFormat(t *testing.T) {
	bucketed := writeFile(t, "words.txt", scenario)
	wordList := writeFile(t, "words.lst", "the\nquick\n\nbrown\nfox\n")

	format, err := DetectFileFormat(bucketed)
	require.NoError(t, err)
	assert.Equal(t, FormatBucketed, format)

	format, err = DetectFileFormat(wordList)
	require.NoError(t, err)
	assert.Equal(t, FormatWordList, format)

	assert.NoError(t, ValidateFileFormat(bucketed, FormatBucketed))
	assert.Error(t, ValidateFileFormat(wordList, FormatBucketed))

	a, err := Open(bucketed, FormatUnknown)
	require.NoError(t, err)
	b, err := Open(wordList, FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestOpenDamagedBucketed(t *testing.T) {
	testCases := []struct {
		name, content string
	}{
		{"short words line", "3\nfoxth\n"},
		{"bad second bucket", "3\nfoxthe\n5\nbrownquic\n"},
		{"padded header", "  3  \nfoxth\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "words.txt", tc.content)

			format, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, FormatBucketed, format)

			_, err = Open(path, FormatUnknown)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Equal(t, path, le.Path)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]FileFormat{
		"":         FormatUnknown,
		"auto":     FormatUnknown,
		"Bucketed": FormatBucketed,
		"wordlist": FormatWordList,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("fst")
	assert.Error(t, err)
}

func TestRuntimeLoader(t *testing.T) {
	path := writeFile(t, "words.txt", scenario)
	rl := NewRuntimeLoader(path, FormatBucketed, 32)

	d, err := rl.Load()
	require.NoError(t, err)
	assert.Equal(t, 32, d.MaxWordLen())

	_, changed, err := rl.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("3\ncatfoxthe\n"), 0644))
	d, changed, err = rl.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, d.Check("cat"))
	assert.Equal(t, 3, rl.Loads())
}

func TestStats(t *testing.T) {
	d := mustParse(t, scenario)
	s := d.Stats()
	assert.Equal(t, 5, s.Buckets)
	assert.Equal(t, 2, s.NonEmpty)
	assert.Equal(t, 4, s.Words)
	assert.Equal(t, 16, s.Bytes)

	before := s.Fingerprint
	_, err := d.Insert("cat")
	require.NoError(t, err)
	assert.NotEqual(t, before, d.Fingerprint())
}
