// Package ffmpeg builds and executes transcode commands.
//
// The transcoder is an external collaborator: it is invoked as an opaque
// subprocess with a fixed argument contract and treated as succeeding only on
// zero exit status. Output-file verification is owned by the processing
// pipeline.
package ffmpeg

import "strconv"

// Encoder constants for the encode paths.
const (
	videoEncoder = "libx264"
	audioEncoder = "aac"
)

// Options are the orthogonal axes of one transcode invocation.
//
// VideoCopy and AudioCopy select stream copy for their axis; the encode
// settings apply only when the corresponding axis re-encodes. The four
// combinations are all valid and combine freely.
type Options struct {
	Input  string
	Output string

	// VideoCopy selects stream copy for the video axis. When false the
	// video stream is re-encoded with CRF and Preset.
	VideoCopy bool
	CRF       int
	Preset    string

	// AudioCopy selects stream copy for the audio axis. When false the
	// audio stream is re-encoded at Bitrate (in kbps, without the k suffix).
	AudioCopy bool
	Bitrate   string
}

// Build constructs the complete ffmpeg argument slice, without the binary
// name: overwrite flag, input, video-handling arguments, audio-handling
// arguments, output.
func Build(opts Options) []string {
	args := make([]string, 0, 16)

	args = append(args, "-y", "-i", opts.Input)

	if opts.VideoCopy {
		args = append(args, "-c:v", "copy")
	} else {
		args = append(args,
			"-c:v", videoEncoder,
			"-preset", opts.Preset,
			"-crf", strconv.Itoa(opts.CRF),
		)
	}

	if opts.AudioCopy {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args,
			"-c:a", audioEncoder,
			"-b:a", opts.Bitrate+"k",
		)
	}

	args = append(args, opts.Output)
	return args
}
