package dictionary

import (
	"bufio"
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// FromWords builds a dictionary from an unsorted word list. Words are trimmed
// and lowercased; empty, duplicate and non UTF-8 entries are dropped.
func FromWords(words []string) (*Dictionary, error) {
	filter := utils.NewWordFilter(len(words))
	cleaned := make([]string, 0, len(words))
	skipped := 0
	for _, w := range words {
		if !utf8.ValidString(w) {
			skipped++
			continue
		}
		w = utils.CleanWord(w)
		if w == "" {
			continue
		}
		if strings.ContainsAny(w, "\r\n") || len(w) > maxRecordLen {
			skipped++
			continue
		}
		if filter.ShouldInclude(w) {
			cleaned = append(cleaned, w)
		}
	}
	if skipped > 0 {
		log.Warnf("Skipped %d invalid words", skipped)
	}
	if len(cleaned) == 0 {
		return nil, ErrEmpty
	}

	slices.SortFunc(cleaned, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), strings.Compare(a, b))
	})

	maxLen := len(cleaned[len(cleaned)-1])
	blobs := make([][]byte, maxLen)
	for _, w := range cleaned {
		blobs[len(w)-1] = append(blobs[len(w)-1], w...)
	}
	return newFromBlobs(blobs)
}

// ReadWordList reads one word per line. Blank lines are skipped.
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	reader := bufio.NewReader(r)
	for {
		line, err := readLine(reader)
		if line = strings.TrimSpace(line); line != "" {
			words = append(words, line)
		}
		if err == io.EOF {
			return words, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// LoadWordList reads a plain word list file and builds a dictionary from it.
func LoadWordList(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	words, err := ReadWordList(file)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	d, err := FromWords(words)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return d, nil
}

// WriteTo writes the dictionary in the bucketed format Load reads.
// Empty buckets are omitted.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for i := range d.buckets {
		b := &d.buckets[i]
		if b.count == 0 {
			continue
		}
		n, err := bw.WriteString(strconv.Itoa(b.length) + "\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
		n, err = bw.Write(b.blob)
		written += int64(n)
		if err != nil {
			return written, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}

// String renders the dictionary in the bucketed format.
func (d *Dictionary) String() string {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return fmt.Sprintf("<dictionary: %v>", err)
	}
	return buf.String()
}
