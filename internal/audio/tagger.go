package audio

import (
	"path/filepath"

	"github.com/bogem/id3v2"
)

// Tagger writes ID3 tags to processed audio files.
//
// The fetch engine reports a display title and channel per item; after the
// audio pipeline renames a file into place, the Tagger records that metadata
// as the title and artist frames. Only mp3 files carry ID3 tags; other audio
// formats are left untouched.
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag writes title and channel metadata to the file at path.
//
// Non-mp3 paths are a no-op. Empty metadata fields leave the corresponding
// frame unchanged.
func (t *Tagger) Tag(path, title, channel string) error {
	if filepath.Ext(path) != ".mp3" {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if title != "" {
		tag.SetTitle(title)
	}
	if channel != "" {
		tag.SetArtist(channel)
	}

	return tag.Save()
}
