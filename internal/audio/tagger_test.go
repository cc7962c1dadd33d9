package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

func TestTag_NonMP3IsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	if err := os.WriteFile(path, []byte("flac data"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewTagger().Tag(path, "Title", "Channel"); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "flac data" {
		t.Error("non-mp3 file must not be modified")
	}
}

func TestTag_WritesTitleAndArtist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")

	// Seed the file with an existing empty tag so Open can parse it.
	seed := id3v2.NewEmptyTag()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := seed.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := NewTagger().Tag(path, "Some Title", "Some Channel"); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "Some Title" {
		t.Errorf("Title() = %q, want %q", got, "Some Title")
	}
	if got := tag.Artist(); got != "Some Channel" {
		t.Errorf("Artist() = %q, want %q", got, "Some Channel")
	}
}
