// Package audio provides post-processing for audio-mode downloads.
//
// # Tagger
//
// The Tagger writes ID3 metadata to renamed mp3 outputs using the title and
// channel the fetch engine reported for each item:
//
//	tagger := audio.NewTagger()
//	err := tagger.Tag("/music/track_Processed.mp3", "Track Title", "Channel")
//
// Tagging failures are reported as warnings by the pipeline and never fail
// the task: the rename and archive record already happened.
package audio
