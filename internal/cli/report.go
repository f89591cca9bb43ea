// Package cli prints check results for terminals and runs the interactive
// checking loop.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	glyphCorrect = "✅"
	glyphWrong   = "❌"
	glyphUnsure  = "❓"
)

// Printer writes one line per checked word.
type Printer struct {
	out        io.Writer
	word       lipgloss.Style
	wrong      lipgloss.Style
	suggestion lipgloss.Style
	faint      lipgloss.Style
}

// NewPrinter creates a printer on out. Colors are only used when color is
// set and out is a terminal that supports them.
func NewPrinter(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	p := &Printer{
		out:        out,
		word:       r.NewStyle(),
		wrong:      r.NewStyle(),
		suggestion: r.NewStyle(),
		faint:      r.NewStyle(),
	}
	if color {
		p.word = p.word.Bold(true)
		p.wrong = p.wrong.Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
		p.suggestion = p.suggestion.Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
		p.faint = p.faint.Faint(true)
	}
	return p
}

// Result prints the verdict for word:
//
//	✅ word
//	❌ Wrong word 'wrod', no suggestions
//	❓ wrod => word wood
func (p *Printer) Result(word string, correct bool, suggestions []string) {
	switch {
	case correct:
		fmt.Fprintf(p.out, "%s %s\n", glyphCorrect, p.word.Render(word))
	case len(suggestions) == 0:
		fmt.Fprintf(p.out, "%s Wrong word '%s', no suggestions\n", glyphWrong, p.wrong.Render(word))
	default:
		styled := make([]string, len(suggestions))
		for i, s := range suggestions {
			styled[i] = p.suggestion.Render(s)
		}
		fmt.Fprintf(p.out, "%s %s => %s\n", glyphUnsure, p.wrong.Render(word), strings.Join(styled, " "))
	}
}

// Stats prints a one line summary of a loaded dictionary.
func (p *Printer) Stats(path string, s dictionary.Stats, elapsed time.Duration) {
	line := fmt.Sprintf("%s words in %d buckets (%s) from %s in %v",
		humanize.Comma(int64(s.Words)), s.NonEmpty, humanize.IBytes(uint64(s.Bytes)), path, elapsed.Round(time.Microsecond))
	fmt.Fprintln(p.out, p.faint.Render(line))
}

// Message prints a plain line.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintln(p.out, p.faint.Render(fmt.Sprintf(format, args...)))
}
