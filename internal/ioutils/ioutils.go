// Package ioutils provides file system helpers shared across the pipeline.
//
// This package contains functions for:
//   - Filename and metadata sanitization
//   - Suffix-based output path derivation
//   - Directory creation
package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeChars matches the characters yt-dlp metadata fields and filename
// suffixes may not carry into a path: \ / * ? : " < > |
var unsafeChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeName replaces filesystem-unsafe characters with underscores.
//
// It is applied to user-supplied filename suffixes and to metadata fields
// (title, channel, playlist title) before they reach path templating.
//
// Example:
//
//	SanitizeName("Part 1/2: Intro?") // Returns "Part 1_2_ Intro_"
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// SuffixedPath inserts "_<suffix>" before the extension of path.
//
// When ext is non-empty it replaces the original extension (used by the
// video pipeline, which always emits a fixed container). ext must include
// the leading dot.
//
// Example:
//
//	SuffixedPath("a/video.webm", "Processed", ".mp4") // "a/video_Processed.mp4"
//	SuffixedPath("a/track.flac", "Processed", "")     // "a/track_Processed.flac"
func SuffixedPath(path, suffix, ext string) string {
	origExt := filepath.Ext(path)
	base := strings.TrimSuffix(path, origExt)
	if ext == "" {
		ext = origExt
	}
	return base + "_" + suffix + ext
}

// HasSuffix reports whether the filename stem of path already ends with the
// given processing suffix. Used as the idempotence guard before renaming or
// transcoding.
func HasSuffix(path, suffix string) bool {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.HasSuffix(base, suffix)
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
