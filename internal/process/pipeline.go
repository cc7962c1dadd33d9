package process

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/audio"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/ffmpeg"
	"github.com/hsalam/ytproc/internal/ioutils"
	"github.com/hsalam/ytproc/internal/model"
	"github.com/hsalam/ytproc/internal/progress"
)

// container is the fixed output container for video-mode processing.
const container = ".mp4"

// Pipeline drains the task queue produced by the fetch stage.
//
// Two mutually exclusive modes, selected once per run by the settings:
// audio mode renames files sequentially, video mode transcodes them with a
// bounded worker pool. Either way exactly one Result is produced per Task.
type Pipeline struct {
	settings   *config.Settings
	archive    *archive.Archive
	transcoder ffmpeg.Runner
	tagger     *audio.Tagger
	reporter   progress.Reporter
	logger     *slog.Logger
	notify     func(model.ProgressEvent)
}

// NewPipeline creates a Pipeline. notify may be nil; a nil reporter discards
// progress.
func NewPipeline(settings *config.Settings, arch *archive.Archive, transcoder ffmpeg.Runner, reporter progress.Reporter, logger *slog.Logger, notify func(model.ProgressEvent)) *Pipeline {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Pipeline{
		settings:   settings,
		archive:    arch,
		transcoder: transcoder,
		tagger:     audio.NewTagger(),
		reporter:   reporter,
		logger:     logger,
		notify:     notify,
	}
}

// Process handles all queued tasks and returns one Result per task.
// Completion order across workers is unspecified; the result slice follows
// completion order, not queue order.
func (p *Pipeline) Process(ctx context.Context, tasks []model.Task) []model.Result {
	if len(tasks) == 0 {
		p.logger.Info("no new files to process")
		p.event(model.ProgressEvent{Message: "No new files to process.", Level: model.LevelInfo})
		return nil
	}

	if p.settings.AudioOnly {
		return p.processAudio(tasks)
	}
	return p.processVideo(ctx, tasks)
}

// processVideo drains tasks with a worker pool bounded by MaxWorkers.
// Workers are fully independent; per-task failures become failure results
// and never abort siblings.
func (p *Pipeline) processVideo(ctx context.Context, tasks []model.Task) []model.Result {
	p.logger.Info("processing videos", "count", len(tasks), "mode", p.settings.ProcessMode, "workers", p.settings.MaxWorkers)
	p.event(model.ProgressEvent{Message: fmt.Sprintf("Processing %d video(s) in '%s' mode...", len(tasks), p.settings.ProcessMode), Level: model.LevelInfo})

	p.reporter.BatchStarted(len(tasks), "Processing videos")
	defer p.reporter.BatchFinished()

	var (
		mu      sync.Mutex
		results []model.Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.MaxWorkers)

	for _, task := range tasks {
		g.Go(func() error {
			result := p.processOneVideo(ctx, task)
			p.report(result)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			p.reporter.BatchAdvance()
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()
	return results
}

// processOneVideo runs a single transcode task end to end.
func (p *Pipeline) processOneVideo(ctx context.Context, task model.Task) model.Result {
	base := filepath.Base(task.Path)

	if ioutils.HasSuffix(task.Path, p.settings.FilenameSuffix) {
		return model.Result{Task: task, Status: model.StatusSkipped, OutputPath: task.Path}
	}

	output := ioutils.SuffixedPath(task.Path, p.settings.FilenameSuffix, container)

	args := ffmpeg.Build(ffmpeg.Options{
		Input:     task.Path,
		Output:    output,
		VideoCopy: p.settings.ProcessMode == config.ModeCopy,
		CRF:       p.settings.CRF,
		Preset:    p.settings.Preset,
		AudioCopy: p.settings.AudioCodec == config.ModeCopy,
		Bitrate:   p.settings.AudioBitrate,
	})

	if timeout := p.settings.TaskTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := p.transcoder.Run(ctx, args); err != nil {
		// A failed transcode may leave a partial output file behind; it is
		// kept for inspection and the source stays untouched.
		return model.Result{Task: task, Status: model.StatusFailed, Err: fmt.Errorf("transcode %s: %w", base, err)}
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return model.Result{Task: task, Status: model.StatusFailed, Err: fmt.Errorf("transcode %s: output missing or empty", base)}
	}

	if !p.settings.KeepOriginal {
		if err := os.Remove(task.Path); err != nil {
			p.logger.Warn("could not remove original", "file", base, "error", err)
			p.event(model.ProgressEvent{Message: fmt.Sprintf("Could not remove original %s: %v", base, err), Level: model.LevelWarning})
		}
	}

	if err := p.archive.Add(output); err != nil {
		return model.Result{Task: task, Status: model.StatusFailed, Err: fmt.Errorf("record %s: %w", filepath.Base(output), err)}
	}

	return model.Result{Task: task, Status: model.StatusSuccess, OutputPath: output}
}

// processAudio renames files sequentially, inserting the processing suffix
// before each file's original extension. No transcoder is ever invoked.
func (p *Pipeline) processAudio(tasks []model.Task) []model.Result {
	p.logger.Info("processing audio files", "count", len(tasks))
	p.event(model.ProgressEvent{Message: fmt.Sprintf("Processing %d audio file(s) (rename only)...", len(tasks)), Level: model.LevelInfo})

	p.reporter.BatchStarted(len(tasks), "Processing audio")
	defer p.reporter.BatchFinished()

	results := make([]model.Result, 0, len(tasks))
	for _, task := range tasks {
		result := p.processOneAudio(task)
		p.report(result)
		results = append(results, result)
		p.reporter.BatchAdvance()
	}
	return results
}

func (p *Pipeline) processOneAudio(task model.Task) model.Result {
	if ioutils.HasSuffix(task.Path, p.settings.FilenameSuffix) {
		return model.Result{Task: task, Status: model.StatusSkipped, OutputPath: task.Path}
	}

	newPath := ioutils.SuffixedPath(task.Path, p.settings.FilenameSuffix, "")
	base := filepath.Base(task.Path)

	if err := os.Rename(task.Path, newPath); err != nil {
		return model.Result{Task: task, Status: model.StatusFailed, Err: fmt.Errorf("rename %s: %w", base, err)}
	}

	if err := p.archive.Add(newPath); err != nil {
		return model.Result{Task: task, Status: model.StatusFailed, Err: fmt.Errorf("record %s: %w", filepath.Base(newPath), err)}
	}

	if p.settings.TagAudio {
		if err := p.tagger.Tag(newPath, task.Title, task.Channel); err != nil {
			p.logger.Warn("could not tag audio file", "file", filepath.Base(newPath), "error", err)
			p.event(model.ProgressEvent{Message: fmt.Sprintf("Could not tag %s: %v", filepath.Base(newPath), err), Level: model.LevelWarning})
		}
	}

	return model.Result{Task: task, Status: model.StatusSuccess, OutputPath: newPath}
}

// report logs one result and forwards it to the event stream.
func (p *Pipeline) report(result model.Result) {
	base := filepath.Base(result.Task.Path)
	switch result.Status {
	case model.StatusSuccess:
		out := filepath.Base(result.OutputPath)
		p.logger.Info("processed", "file", out, "task", result.Task.ID)
		p.event(model.ProgressEvent{Message: fmt.Sprintf("Processed and saved: %s", out), Level: model.LevelSuccess})
	case model.StatusSkipped:
		p.logger.Warn("file seems already processed, skipping", "file", base, "task", result.Task.ID)
		p.event(model.ProgressEvent{Message: fmt.Sprintf("File '%s' seems already processed. Skipping.", base), Level: model.LevelWarning})
	case model.StatusFailed:
		p.logger.Error("processing failed", "file", base, "task", result.Task.ID, "error", result.Err)
		p.event(model.ProgressEvent{Message: fmt.Sprintf("Processing failed for %s: %v. Original kept.", base, result.Err), Level: model.LevelError})
	}
}

func (p *Pipeline) event(ev model.ProgressEvent) {
	if p.notify != nil {
		p.notify(ev)
	}
}
