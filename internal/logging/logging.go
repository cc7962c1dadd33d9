// Package logging constructs the slog logger backing the run log.
//
// Terminal output is owned by the progress reporter and the event callback;
// the logger writes the rolling, timestamped run log that survives the
// process (append mode, human-readable text lines).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options describes logger construction parameters.
type Options struct {
	// Path is the log file to append to. Empty writes to stderr.
	Path string

	// Verbose lowers the level from Info to Debug.
	Verbose bool
}

// New constructs a slog logger using the provided options. The returned
// closer owns the underlying log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("ensure log directory: %w", err)
			}
		}
		file, err := os.OpenFile(opts.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opts.Path, err)
		}
		w = file
		closer = file
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
