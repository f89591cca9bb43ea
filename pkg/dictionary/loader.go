package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoadError reports why a dictionary file could not be loaded.
// Line is 0 when the failure is not tied to a line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	name := e.Path
	if name == "" {
		name = "<reader>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("load dictionary %s:%d: %v", name, e.Line, e.Err)
	}
	return fmt.Sprintf("load dictionary %s: %v", name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a dictionary in the bucketed format:
//
//	3
//	foxthe
//	5
//	brownquick
//
// Each length header is followed by one line holding every word of that
// length concatenated. Headers must be ascending, words already sorted.
// Lengths that do not appear get empty buckets.
func Load(path string) (*Dictionary, error) {
	start := time.Now()
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	d, err := Parse(file)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	log.Debugf("Loaded %d words in %d buckets from %s in %v", d.Words(), d.MaxLen(), path, time.Since(start))
	return d, nil
}

// Parse reads the bucketed format from r.
func Parse(r io.Reader) (*Dictionary, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var blobs [][]byte
	lineNo := 0
	prevLen := 0

	for {
		header, err := readLine(reader)
		if err != nil && err != io.EOF {
			return nil, &LoadError{Line: lineNo + 1, Err: err}
		}
		if err == io.EOF && header == "" {
			break
		}
		lineNo++
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}

		length, convErr := strconv.Atoi(header)
		if convErr != nil || length <= 0 || length > maxRecordLen {
			return nil, &LoadError{Line: lineNo, Err: fmt.Errorf("%w: invalid length header %q", ErrMalformed, header)}
		}
		if length <= prevLen {
			return nil, &LoadError{Line: lineNo, Err: fmt.Errorf("%w: length %d after %d", ErrMalformed, length, prevLen)}
		}
		prevLen = length

		words, err := readLine(reader)
		if err == io.EOF && words == "" {
			return nil, &LoadError{Line: lineNo + 1, Err: fmt.Errorf("%w: missing words line for length %d", ErrMalformed, length)}
		}
		if err != nil && err != io.EOF {
			return nil, &LoadError{Line: lineNo + 1, Err: err}
		}
		lineNo++

		blob := []byte(strings.TrimSpace(words))
		if len(blob)%length != 0 {
			return nil, &LoadError{Line: lineNo, Err: fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformed, len(blob), length)}
		}
		for len(blobs) < length {
			blobs = append(blobs, nil)
		}
		blobs[length-1] = blob
		b := Bucket{blob: blob, length: length, count: len(blob) / length}
		if err := b.validate(); err != nil {
			return nil, &LoadError{Line: lineNo, Err: err}
		}
	}

	d := assemble(blobs)
	if d.Words() == 0 {
		return nil, &LoadError{Err: ErrEmpty}
	}
	return d, nil
}

// readLine returns the next line without its line ending. A final line with
// no newline is returned together with io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return line, err
}
