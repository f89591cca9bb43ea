package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler checks free text line by line. Lines starting with ':' are
// commands:
//
//	:add <word>   insert a word
//	:stats        print dictionary stats
//	:q            quit
type InputHandler struct {
	checker      suggest.Suggester
	printer      *Printer
	suggestLimit int
	requestCount int
}

// NewInputHandler creates a handler printing through printer. limit 0 shows
// every suggestion.
func NewInputHandler(checker suggest.Suggester, printer *Printer, limit int) *InputHandler {
	return &InputHandler{
		checker:      checker,
		printer:      printer,
		suggestLimit: limit,
	}
}

// Start reads lines from in until EOF or :q.
func (h *InputHandler) Start(in io.Reader) error {
	h.printer.Message("type a sentence and press Enter to check it (:q or Ctrl+D to exit)")
	reader := bufio.NewReader(in)

	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleInput(line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput processes one line and reports whether the loop should stop.
func (h *InputHandler) handleInput(line string) bool {
	h.requestCount++
	if strings.HasPrefix(line, ":") {
		return h.handleCommand(strings.Fields(line[1:]))
	}

	start := time.Now()
	checked := 0
	for _, tok := range utils.Tokenize(line) {
		if !utils.IsCheckable(tok.Text) {
			log.Debugf("Skipping token %q", tok.Text)
			continue
		}
		checked++
		if h.checker.Check(tok.Text) {
			h.printer.Result(tok.Text, true, nil)
			continue
		}
		suggestions := h.checker.Suggest(tok.Text, h.suggestLimit)
		for i, s := range suggestions {
			suggestions[i] = utils.MatchCase(tok.Text, s)
		}
		h.printer.Result(tok.Text, false, suggestions)
	}
	log.Debugf("Checked %d tokens in %v", checked, time.Since(start))
	return false
}

func (h *InputHandler) handleCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "q", "quit", "exit":
		return true
	case "add":
		if len(args) < 2 {
			h.printer.Message("usage: :add <word>")
			return false
		}
		for _, w := range args[1:] {
			added, err := h.checker.Add(w)
			switch {
			case err != nil:
				h.printer.Message("cannot add %q: %v", w, err)
			case added:
				h.printer.Message("added %q", w)
			default:
				h.printer.Message("%q is already known", w)
			}
		}
	case "stats":
		stats := h.checker.Stats()
		h.printer.Message("words=%d buckets=%d max_len=%d max_dif=%d requests=%d",
			stats["words"], stats["buckets"], stats["maxLen"], stats["maxDif"], h.requestCount)
	default:
		h.printer.Message("unknown command %q", args[0])
	}
	return false
}
