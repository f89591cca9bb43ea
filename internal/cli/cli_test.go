package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	d, err := dictionary.Parse(strings.NewReader("3\nfoxthe\n5\nbrownquick\n"))
	require.NoError(t, err)
	var out bytes.Buffer
	h := NewInputHandler(suggest.NewWithDictionary(d), NewPrinter(&out, false), 10)
	return h, &out
}

func TestPrinterResult(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, false)

	p.Result("fox", true, nil)
	p.Result("xyzzy", false, nil)
	p.Result("fiz", false, []string{"fix", "fox"})

	assert.Equal(t, "✅ fox\n❌ Wrong word 'xyzzy', no suggestions\n❓ fiz => fix fox\n", out.String())
}

func TestPrinterStats(t *testing.T) {
	d, err := dictionary.FromWords([]string{"fox", "the", "brown", "quick"})
	require.NoError(t, err)

	var out bytes.Buffer
	NewPrinter(&out, false).Stats("words.txt", d.Stats(), 1500*time.Microsecond)
	assert.Equal(t, "4 words in 2 buckets (16 B) from words.txt in 1.5ms\n", out.String())
}

func TestInputHandler(t *testing.T) {
	h, out := newHandler(t)

	in := strings.NewReader("Teh quick fox, 2024 a\nxyzzy\n:add xyzzy\nxyzzy\n:q\nfox\n")
	require.NoError(t, h.Start(in))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{
		"❓ Teh => The",
		"✅ quick",
		"✅ fox",
		"❌ Wrong word 'xyzzy', no suggestions",
		`added "xyzzy"`,
		"✅ xyzzy",
	}, lines[1:])
	assert.Equal(t, 5, h.requestCount)
	assert.True(t, strings.HasPrefix(lines[0], "type a sentence"))
}

func TestInputHandlerCommands(t *testing.T) {
	h, out := newHandler(t)

	assert.False(t, h.handleInput(":add fox"))
	assert.False(t, h.handleInput(":add"))
	assert.False(t, h.handleInput(":add 123456789012345678901234567890123456789012345678901234567890123456789"))
	assert.False(t, h.handleInput(":stats"))
	assert.False(t, h.handleInput(":nope"))
	assert.True(t, h.handleInput(":quit"))

	s := out.String()
	assert.Contains(t, s, `"fox" is already known`)
	assert.Contains(t, s, "usage: :add <word>")
	assert.Contains(t, s, "cannot add")
	assert.Contains(t, s, "words=4 buckets=5 max_len=5 max_dif=2 requests=4")
	assert.Contains(t, s, `unknown command "nope"`)
}
