// Package archive implements the processed-file archive: an append-only,
// set-backed record of output paths already handled by the pipeline.
//
// The on-disk form is one key per line. Duplicate lines are harmless since
// membership, not line count, is the operative semantic; a fresh Load
// collapses them back into a set.
package archive

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Archive is the in-memory set plus its backing file.
//
// Add and Contains are safe for concurrent use by multiple processing
// workers. The file write happens before the in-memory set is updated, so a
// key is only ever considered recorded after it is durably appended.
type Archive struct {
	path string

	mu   sync.RWMutex
	keys map[string]struct{}
}

// Load reads the archive file at path into memory. A missing file yields an
// empty archive; the file is created on the first Add.
func Load(path string) (*Archive, error) {
	a := &Archive{
		path: path,
		keys: make(map[string]struct{}),
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			a.keys[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}

	return a, nil
}

// Contains reports whether key has been recorded.
func (a *Archive) Contains(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.keys[key]
	return ok
}

// Add appends key to the backing file and then records it in memory.
//
// If the file write fails the key is not recorded and the error is returned;
// the caller reports the triggering operation as failed rather than silently
// marking it done. Re-adding an existing key appends a duplicate line, which
// is safe.
func (a *Archive) Add(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.OpenFile(a.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open archive %s for append: %w", a.path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, key); err != nil {
		return fmt.Errorf("append to archive %s: %w", a.path, err)
	}

	a.keys[key] = struct{}{}
	return nil
}

// Len returns the number of distinct recorded keys.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.keys)
}
