package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/model"
	"github.com/hsalam/ytproc/internal/progress"
)

// Coordinator drives the fetch engine and turns its completion events into
// queued processing tasks, deduplicated against the processed archive.
type Coordinator struct {
	settings *config.Settings
	archive  *archive.Archive
	engine   Engine
	reporter progress.Reporter
	logger   *slog.Logger
	notify   func(model.ProgressEvent)

	mu    sync.Mutex
	tasks []model.Task
}

// NewCoordinator creates a Coordinator. notify may be nil.
func NewCoordinator(settings *config.Settings, arch *archive.Archive, engine Engine, reporter progress.Reporter, logger *slog.Logger, notify func(model.ProgressEvent)) *Coordinator {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Coordinator{
		settings: settings,
		archive:  arch,
		engine:   engine,
		reporter: reporter,
		logger:   logger,
		notify:   notify,
	}
}

// Fetch retrieves the given URLs as one batch, populating the task queue as
// items complete.
//
// A failure of the whole engine call is logged and swallowed: the run
// proceeds to process whatever was already queued. Only context cancellation
// is returned to the caller.
func (c *Coordinator) Fetch(ctx context.Context, urls []string) error {
	c.logger.Info("starting download", "urls", urls)
	c.event(model.ProgressEvent{Message: fmt.Sprintf("Starting download from %d URL(s)", len(urls)), Level: model.LevelInfo})

	opts := Options{
		OutputTemplate:  c.settings.OutputPath,
		DownloadArchive: c.settings.ArchiveFile,
		Retries:         10,
		FragmentRetries: 10,
		AudioOnly:       c.settings.AudioOnly,
		AudioFormat:     c.settings.AudioFormat,
		AudioBitrate:    c.settings.AudioBitrate,
		Quality:         c.settings.Quality,
		Subtitles:       c.settings.Subtitles,
		SubLangs:        c.settings.SubLangs,
	}

	if opts.AudioOnly {
		c.event(model.ProgressEvent{Message: fmt.Sprintf("Audio-only mode -> %s @ %sk", opts.AudioFormat, opts.AudioBitrate), Level: model.LevelInfo})
	} else {
		c.event(model.ProgressEvent{Message: fmt.Sprintf("Video mode -> up to %sp", opts.Quality), Level: model.LevelInfo})
		if opts.Subtitles {
			c.event(model.ProgressEvent{Message: fmt.Sprintf("Embedding subtitles: %s", opts.SubLangs), Level: model.LevelInfo})
		}
	}

	if err := c.engine.Fetch(ctx, urls, opts, c.handleEvent); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The batch call itself failed. Items that completed before the
		// failure are already queued, so the run continues.
		c.logger.Error("fatal download error", "error", err)
		c.event(model.ProgressEvent{Message: fmt.Sprintf("Fatal download error: %v", err), Level: model.LevelError})
	}

	return nil
}

// Tasks returns the queued tasks in completion order.
func (c *Coordinator) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasks := make([]model.Task, len(c.tasks))
	copy(tasks, c.tasks)
	return tasks
}

// handleEvent consumes one engine event. The engine may invoke it from
// multiple internal goroutines; queue mutations take the coordinator lock and
// display mutations are serialized by the reporter.
func (c *Coordinator) handleEvent(ev model.Event) {
	switch ev.Kind {
	case model.EventProgress:
		c.reporter.ItemProgress(ev.ItemID, ev.Title, ev.TotalBytes, ev.DownloadedBytes)

	case model.EventCompleted:
		c.reporter.ItemFinished(ev.ItemID)

		if ev.Path == "" {
			// Malformed completion with no destination; nothing to queue.
			return
		}

		base := filepath.Base(ev.Path)
		c.logger.Info("finished downloading", "file", base)
		c.event(model.ProgressEvent{Message: fmt.Sprintf("Finished downloading: %s", base), Level: model.LevelVerbose})

		if c.settings.SkipProcessing {
			return
		}

		if c.archive.Contains(ev.Path) {
			c.logger.Info("skipping processing, already processed", "file", base)
			c.event(model.ProgressEvent{Message: fmt.Sprintf("Skipping processing (already processed): %s", base), Level: model.LevelInfo})
			return
		}

		c.mu.Lock()
		c.tasks = append(c.tasks, model.NewTask(ev.Path, ev.Title, ev.Channel))
		c.mu.Unlock()
	}
}

func (c *Coordinator) event(ev model.ProgressEvent) {
	if c.notify != nil {
		c.notify(ev)
	}
}
