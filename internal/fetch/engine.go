package fetch

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/hsalam/ytproc/internal/model"
)

// Options is the configuration handed to the fetch engine for one batch.
// Everything else about retrieval — network retries, fragment handling,
// filename templating, the download-dedup archive — is the engine's own
// concern.
type Options struct {
	// OutputTemplate is the engine-native output path template.
	OutputTemplate string

	// DownloadArchive is the engine-owned download archive file.
	DownloadArchive string

	// Retries and FragmentRetries bound retry-on-transient-failure for
	// connection and fragment-level errors.
	Retries         int
	FragmentRetries int

	// AudioOnly selects bestaudio extraction at AudioFormat/AudioBitrate
	// instead of video retrieval.
	AudioOnly    bool
	AudioFormat  string
	AudioBitrate string

	// Quality is the video height ceiling, with or without a trailing "p".
	Quality string

	// Subtitles embeds subtitles for the listed languages (video only).
	Subtitles bool
	SubLangs  string
}

// Engine is the external fetch collaborator: it retrieves media for a batch
// of URLs and reports per-item activity through the hook. Per-item failures
// are handled internally and never abort the batch; a returned error means
// the batch call itself failed.
type Engine interface {
	Fetch(ctx context.Context, urls []string, opts Options, hook func(model.Event)) error
}

// metadataFields and unsafeMetaPattern sanitize title/channel/playlist
// metadata before it reaches the engine's path templating.
const (
	metadataFields    = "title,channel,playlist_title"
	unsafeMetaPattern = `[\\/*?:"<>|]`

	progressInterval = 500 * time.Millisecond
)

// YTDLP adapts the yt-dlp tool (via go-ytdlp) to the Engine interface.
// The yt-dlp binary must be available on PATH.
type YTDLP struct{}

// Fetch implements Engine.
func (YTDLP) Fetch(ctx context.Context, urls []string, opts Options, hook func(model.Event)) error {
	dl := ytdlp.New().
		Output(opts.OutputTemplate).
		DownloadArchive(opts.DownloadArchive).
		IgnoreErrors().
		Retries(strconv.Itoa(opts.Retries)).
		FragmentRetries(strconv.Itoa(opts.FragmentRetries)).
		RestrictFilenames().
		ReplaceInMetadata(metadataFields, unsafeMetaPattern, "_")

	if opts.AudioOnly {
		dl = dl.
			Format("bestaudio/best").
			ExtractAudio().
			AudioFormat(opts.AudioFormat).
			AudioQuality(opts.AudioBitrate + "K")
	} else {
		height := strings.TrimSuffix(opts.Quality, "p")
		dl = dl.
			Format(fmt.Sprintf("bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best", height)).
			MergeOutputFormat("mp4")
		if opts.Subtitles {
			dl = dl.
				WriteSubs().
				SubLangs(opts.SubLangs).
				EmbedSubs()
		}
	}

	dl = dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		if ev, ok := adaptUpdate(update); ok {
			hook(ev)
		}
	})

	_, err := dl.Run(ctx, urls...)
	return err
}

// adaptUpdate converts the engine's native callback shape into the tagged
// Event variant. Updates that identify no item (no engine ID and no
// destination filename) are dropped.
func adaptUpdate(u ytdlp.ProgressUpdate) (model.Event, bool) {
	var id, title, channel string
	if u.Info != nil {
		id = u.Info.ID
		if u.Info.Title != nil {
			title = *u.Info.Title
		}
		if u.Info.Channel != nil {
			channel = *u.Info.Channel
		}
	}
	if id == "" && u.Filename != "" {
		id = filepath.Base(u.Filename)
	}
	if id == "" {
		return model.Event{}, false
	}

	switch u.Status {
	case ytdlp.ProgressStatusDownloading:
		return model.Event{
			Kind:            model.EventProgress,
			ItemID:          id,
			Title:           title,
			Channel:         channel,
			Path:            u.Filename,
			TotalBytes:      int64(u.TotalBytes),
			DownloadedBytes: int64(u.DownloadedBytes),
		}, true
	case ytdlp.ProgressStatusFinished:
		return model.Event{
			Kind:    model.EventCompleted,
			ItemID:  id,
			Title:   title,
			Channel: channel,
			Path:    u.Filename,
		}, true
	}

	return model.Event{}, false
}
