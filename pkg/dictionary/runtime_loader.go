package dictionary

import (
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader reloads a dictionary file while a process is running and
// tells the caller whether the contents actually changed.
type RuntimeLoader struct {
	path        string
	format      FileFormat
	maxWordLen  int
	fingerprint uint64
	loads       int
	mu          sync.Mutex
}

// NewRuntimeLoader creates a loader for path. maxWordLen is applied to every
// dictionary it returns; 0 keeps DefaultMaxWordLen.
func NewRuntimeLoader(path string, format FileFormat, maxWordLen int) *RuntimeLoader {
	return &RuntimeLoader{
		path:       path,
		format:     format,
		maxWordLen: maxWordLen,
	}
}

// Path returns the file being loaded.
func (rl *RuntimeLoader) Path() string { return rl.path }

// Fingerprint returns the fingerprint of the last loaded dictionary.
func (rl *RuntimeLoader) Fingerprint() uint64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.fingerprint
}

// Loads returns how many times the file has been read successfully.
func (rl *RuntimeLoader) Loads() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.loads
}

// Load reads the file unconditionally.
func (rl *RuntimeLoader) Load() (*Dictionary, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.load()
}

// Reload reads the file again and returns the new dictionary only when its
// fingerprint differs from the last load.
func (rl *RuntimeLoader) Reload() (*Dictionary, bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	previous := rl.fingerprint
	d, err := rl.load()
	if err != nil {
		return nil, false, err
	}
	if rl.loads > 1 && rl.fingerprint == previous {
		log.Debugf("Dictionary %s unchanged (%016x)", rl.path, previous)
		return nil, false, nil
	}
	return d, true, nil
}

func (rl *RuntimeLoader) load() (*Dictionary, error) {
	d, err := Open(rl.path, rl.format)
	if err != nil {
		return nil, err
	}
	if rl.maxWordLen > 0 {
		d.SetMaxWordLen(rl.maxWordLen)
	}
	rl.fingerprint = d.Fingerprint()
	rl.loads++
	return d, nil
}
