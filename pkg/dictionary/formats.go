package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat identifies how a dictionary file is laid out.
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatBucketed            // length header + concatenated words lines
	FormatWordList            // one word per line, any order
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBucketed: {
		Format:      FormatBucketed,
		Name:        "bucketed",
		Description: "Length-bucketed dictionary",
		Extensions:  []string{".txt", ".dict"},
		MinSize:     4, // "1\na\n"
	},
	FormatWordList: {
		Format:      FormatWordList,
		Name:        "wordlist",
		Description: "Plain word list",
		Extensions:  []string{".txt", ".lst", ".dic"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "auto"
}

// ParseFormat maps a config value to a FileFormat. "auto" and "" map to
// FormatUnknown, which Open resolves with DetectFileFormat.
func ParseFormat(s string) (FileFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatUnknown, nil
	case "bucketed":
		return FormatBucketed, nil
	case "wordlist", "words":
		return FormatWordList, nil
	}
	return FormatUnknown, fmt.Errorf("unknown dictionary format %q", s)
}

// ValidateFileFormat checks that a file is large enough for the format and
// that its head parses as that format. Unexpected extensions only log.
func ValidateFileFormat(filename string, expected FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expected]
	if !exists {
		return fmt.Errorf("unknown format: %v", expected)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		log.Debugf("File %s has unusual extension %q for format %s", filename, ext, formatInfo.Name)
	}

	detected, err := DetectFileFormat(filename)
	if err != nil {
		return err
	}
	if expected == FormatBucketed && detected != FormatBucketed {
		return fmt.Errorf("file %s does not start with a length header", filename)
	}
	return nil
}

// DetectFileFormat sniffs the first non-blank line. A bare positive integer
// is a length header, so the file is bucketed and Load reports any damage
// after it. Anything else is treated as a word list.
func DetectFileFormat(filename string) (FileFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	var head string
	for head == "" {
		line, err := readLine(reader)
		head = strings.TrimSpace(line)
		if err != nil {
			break
		}
	}
	if head == "" {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, ErrEmpty)
	}

	if length, err := strconv.Atoi(head); err == nil && length > 0 {
		return FormatBucketed, nil
	}
	return FormatWordList, nil
}

// Open loads path in the given format, detecting it first for FormatUnknown.
func Open(path string, format FileFormat) (*Dictionary, error) {
	if format == FormatUnknown {
		detected, err := DetectFileFormat(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		log.Debugf("Detected %s format for %s", detected, path)
		format = detected
	}

	switch format {
	case FormatBucketed:
		return Load(path)
	case FormatWordList:
		return LoadWordList(path)
	}
	return nil, &LoadError{Path: path, Err: fmt.Errorf("unknown format: %v", format)}
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats in a stable order.
func ListSupportedFormats() []FormatInfo {
	return []FormatInfo{supportedFormats[FormatBucketed], supportedFormats[FormatWordList]}
}
