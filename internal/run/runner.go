package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/fetch"
	"github.com/hsalam/ytproc/internal/ffmpeg"
	"github.com/hsalam/ytproc/internal/model"
	"github.com/hsalam/ytproc/internal/process"
	"github.com/hsalam/ytproc/internal/progress"
	"github.com/hsalam/ytproc/internal/resolver"
)

// Runner wires one run together: it holds the settings, the log sink, and
// the loaded processed archive, and hands them to the stage constructors.
type Runner struct {
	settings *config.Settings
	logger   *slog.Logger
	archive  *archive.Archive
	notify   func(model.ProgressEvent)

	coordinator *fetch.Coordinator
	pipeline    *process.Pipeline
}

// Summary are the per-run task counts reported after processing.
type Summary struct {
	Queued    int
	Succeeded int
	Skipped   int
	Failed    int
}

// AllFailed reports whether every queued task failed. Callers use it to
// exit non-zero on total failure.
func (s Summary) AllFailed() bool {
	return s.Queued > 0 && s.Failed == s.Queued
}

// NewRunner creates a Runner. engine and transcoder default to the real
// yt-dlp and ffmpeg collaborators when nil; reporter defaults to a no-op;
// notify may be nil.
func NewRunner(settings *config.Settings, arch *archive.Archive, engine fetch.Engine, transcoder ffmpeg.Runner, reporter progress.Reporter, logger *slog.Logger, notify func(model.ProgressEvent)) *Runner {
	if engine == nil {
		engine = fetch.YTDLP{}
	}
	if transcoder == nil {
		transcoder = ffmpeg.Exec{}
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}

	return &Runner{
		settings:    settings,
		logger:      logger,
		archive:     arch,
		notify:      notify,
		coordinator: fetch.NewCoordinator(settings, arch, engine, reporter, logger, notify),
		pipeline:    process.NewPipeline(settings, arch, transcoder, reporter, logger, notify),
	}
}

// Fetch resolves the identifier and downloads the batch, populating the
// processing queue. An unresolvable identifier is a fatal input error
// returned before any I/O. The number of queued tasks is returned.
func (r *Runner) Fetch(ctx context.Context, identifier string) (int, error) {
	urls, err := resolver.Resolve(identifier)
	if err != nil {
		r.logger.Error("invalid identifier", "identifier", identifier)
		return 0, err
	}

	if err := r.coordinator.Fetch(ctx, urls); err != nil {
		return 0, err
	}
	return len(r.coordinator.Tasks()), nil
}

// Process drains the queue populated by Fetch and returns the per-task
// results.
func (r *Runner) Process(ctx context.Context) []model.Result {
	return r.pipeline.Process(ctx, r.coordinator.Tasks())
}

// Run performs a complete run: resolve, fetch, process, summarize. The run
// always reaches its final completion log line, even when every item fails;
// only a fatal input error or cancellation aborts it.
func (r *Runner) Run(ctx context.Context, identifier string) (Summary, error) {
	if _, err := r.Fetch(ctx, identifier); err != nil {
		return Summary{}, err
	}

	var results []model.Result
	if !r.settings.SkipProcessing {
		results = r.Process(ctx)
	}
	return r.Summarize(results), nil
}

// Summarize tallies the per-task results and emits the run's final
// completion log line and success event. Every run that gets past fetching
// ends here, whichever front-end drove the stages.
func (r *Runner) Summarize(results []model.Result) Summary {
	summary := Summary{Queued: len(results)}
	for _, result := range results {
		switch result.Status {
		case model.StatusSuccess:
			summary.Succeeded++
		case model.StatusSkipped:
			summary.Skipped++
		case model.StatusFailed:
			summary.Failed++
		}
	}

	r.logger.Info("all operations completed",
		"queued", summary.Queued,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	r.event(model.ProgressEvent{
		Message: fmt.Sprintf("All operations completed. %d processed, %d skipped, %d failed.",
			summary.Succeeded, summary.Skipped, summary.Failed),
		Level: model.LevelSuccess,
	})

	return summary
}

func (r *Runner) event(ev model.ProgressEvent) {
	if r.notify != nil {
		r.notify(ev)
	}
}
