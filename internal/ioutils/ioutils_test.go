package ioutils

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"with:colons", "with_colons"},
		{"with<brackets>", "with_brackets_"},
		{"with/slashes\\both", "with_slashes_both"},
		{"with|pipes", "with_pipes"},
		{"with?wild*cards", "with_wild_cards"},
		{"with\"quotes\"", "with_quotes_"},
		{"kept spaces and dots.", "kept spaces and dots."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuffixedPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		suffix string
		ext    string
		want   string
	}{
		{"video replaces extension", "dir/clip.webm", "Processed", ".mp4", "dir/clip_Processed.mp4"},
		{"audio keeps extension", "dir/track.flac", "Processed", "", "dir/track_Processed.flac"},
		{"no extension", "dir/raw", "Done", "", "dir/raw_Done"},
		{"dotfiles in dir", "a.b/clip.mp4", "X", ".mp4", "a.b/clip_X.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuffixedPath(tt.path, tt.suffix, tt.ext); got != tt.want {
				t.Errorf("SuffixedPath(%q, %q, %q) = %q, want %q", tt.path, tt.suffix, tt.ext, got, tt.want)
			}
		})
	}
}

func TestHasSuffix(t *testing.T) {
	if !HasSuffix("dir/clip_Processed.mp4", "Processed") {
		t.Error("expected suffix to be detected before extension")
	}
	if HasSuffix("dir/clip.mp4", "Processed") {
		t.Error("unexpected suffix detection")
	}
	if HasSuffix("dir/Processed_clip.mp4", "Processed") {
		t.Error("suffix must be at end of stem")
	}
}
