package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/model"
)

// stubTranscoder stands in for the ffmpeg subprocess. It records every
// invocation and can succeed (writing a non-empty output), write an empty
// output, or fail.
type stubTranscoder struct {
	mu    sync.Mutex
	calls [][]string

	fail        bool
	emptyOutput bool
	sawDeadline bool
}

func (s *stubTranscoder) Run(ctx context.Context, args []string) error {
	s.mu.Lock()
	s.calls = append(s.calls, args)
	if _, ok := ctx.Deadline(); ok {
		s.sawDeadline = true
	}
	s.mu.Unlock()

	if s.fail {
		return errors.New("exit status 1")
	}

	output := args[len(args)-1]
	data := []byte("transcoded")
	if s.emptyOutput {
		data = nil
	}
	return os.WriteFile(output, data, 0644)
}

func (s *stubTranscoder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, settings *config.Settings, tr *stubTranscoder) (*Pipeline, *archive.Archive) {
	t.Helper()
	arch, err := archive.Load(filepath.Join(t.TempDir(), "processed.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return NewPipeline(settings, arch, tr, nil, discardLogger(), nil), arch
}

func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("source data"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func countByStatus(results []model.Result) map[model.ResultStatus]int {
	counts := make(map[model.ResultStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

func TestProcess_VideoSuccess(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1.mp4")

	tr := &stubTranscoder{}
	p, arch := newTestPipeline(t, config.DefaultSettings(), tr)

	results := p.Process(context.Background(), []model.Task{model.NewTask(src, "Video One", "Chan")})

	if len(results) != 1 || results[0].Status != model.StatusSuccess {
		t.Fatalf("results = %+v", results)
	}
	want := filepath.Join(dir, "video1_Processed.mp4")
	if results[0].OutputPath != want {
		t.Errorf("output = %q, want %q", results[0].OutputPath, want)
	}
	if !arch.Contains(want) {
		t.Error("output path should be recorded in the archive")
	}
	if arch.Len() != 1 {
		t.Errorf("archive gained %d entries, want exactly 1", arch.Len())
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be removed when keep-original is off")
	}
	if tr.callCount() != 1 {
		t.Errorf("transcoder invoked %d times, want 1", tr.callCount())
	}
}

func TestProcess_KeepOriginal(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1.mp4")

	settings := config.DefaultSettings()
	settings.KeepOriginal = true
	p, _ := newTestPipeline(t, settings, &stubTranscoder{})

	p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})

	if _, err := os.Stat(src); err != nil {
		t.Error("source should survive with keep-original set")
	}
}

func TestProcess_TranscoderFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1.mp4")

	tr := &stubTranscoder{fail: true}
	p, arch := newTestPipeline(t, config.DefaultSettings(), tr)

	results := p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})

	if len(results) != 1 || results[0].Status != model.StatusFailed {
		t.Fatalf("results = %+v", results)
	}
	if arch.Len() != 0 {
		t.Error("archive must be unchanged on failure")
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source must be preserved on failure")
	}
}

func TestProcess_EmptyOutputIsFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1.mp4")

	tr := &stubTranscoder{emptyOutput: true}
	p, arch := newTestPipeline(t, config.DefaultSettings(), tr)

	results := p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})

	if results[0].Status != model.StatusFailed {
		t.Fatalf("empty output should fail, got %+v", results[0])
	}
	if arch.Len() != 0 {
		t.Error("archive must be unchanged when output is empty")
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source must be preserved on ambiguous outcome")
	}
}

func TestProcess_SuffixGuardSkipsTranscoder(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1_Processed.mp4")

	tr := &stubTranscoder{}
	p, _ := newTestPipeline(t, config.DefaultSettings(), tr)

	results := p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})

	if results[0].Status != model.StatusSkipped {
		t.Fatalf("results = %+v", results)
	}
	if tr.callCount() != 0 {
		t.Error("already-suffixed file must never reach the transcoder")
	}
}

func TestProcess_ExactlyOneResultPerTask(t *testing.T) {
	cases := []struct{ tasks, workers int }{
		{5, 2},
		{17, 3},
		{40, 1},
		{8, 16},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_tasks_%d_workers", tc.tasks, tc.workers), func(t *testing.T) {
			dir := t.TempDir()
			settings := config.DefaultSettings()
			settings.MaxWorkers = tc.workers

			tasks := make([]model.Task, 0, tc.tasks)
			for i := 0; i < tc.tasks; i++ {
				src := writeSource(t, dir, fmt.Sprintf("clip%02d.mp4", i))
				tasks = append(tasks, model.NewTask(src, "", ""))
			}

			p, _ := newTestPipeline(t, settings, &stubTranscoder{})
			results := p.Process(context.Background(), tasks)

			if len(results) != tc.tasks {
				t.Fatalf("got %d results for %d tasks", len(results), tc.tasks)
			}
			seen := make(map[string]bool)
			for _, r := range results {
				if seen[r.Task.ID] {
					t.Errorf("duplicate result for task %s", r.Task.ID)
				}
				seen[r.Task.ID] = true
			}
			if n := countByStatus(results)[model.StatusSuccess]; n != tc.tasks {
				t.Errorf("%d successes, want %d", n, tc.tasks)
			}
		})
	}
}

func TestProcess_AudioRename(t *testing.T) {
	dir := t.TempDir()
	src1 := writeSource(t, dir, "track1.mp3")
	src2 := writeSource(t, dir, "track2.mp3")

	settings := config.DefaultSettings()
	settings.AudioOnly = true
	tr := &stubTranscoder{}
	p, arch := newTestPipeline(t, settings, tr)

	results := p.Process(context.Background(), []model.Task{
		model.NewTask(src1, "", ""),
		model.NewTask(src2, "", ""),
	})

	if tr.callCount() != 0 {
		t.Fatal("audio mode must never invoke the transcoder")
	}
	if n := countByStatus(results)[model.StatusSuccess]; n != 2 {
		t.Fatalf("results = %+v", results)
	}
	for _, want := range []string{
		filepath.Join(dir, "track1_Processed.mp3"),
		filepath.Join(dir, "track2_Processed.mp3"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("renamed file %s missing: %v", want, err)
		}
		if !arch.Contains(want) {
			t.Errorf("archive missing %s", want)
		}
	}
}

func TestProcess_AudioRenameFailureContinues(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.mp3")
	src := writeSource(t, dir, "track.mp3")

	settings := config.DefaultSettings()
	settings.AudioOnly = true
	p, _ := newTestPipeline(t, settings, &stubTranscoder{})

	results := p.Process(context.Background(), []model.Task{
		model.NewTask(missing, "", ""),
		model.NewTask(src, "", ""),
	})

	counts := countByStatus(results)
	if counts[model.StatusFailed] != 1 || counts[model.StatusSuccess] != 1 {
		t.Errorf("results = %+v", results)
	}
}

func TestProcess_AudioSuffixGuard(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "track_Processed.mp3")

	settings := config.DefaultSettings()
	settings.AudioOnly = true
	p, arch := newTestPipeline(t, settings, &stubTranscoder{})

	results := p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})

	if results[0].Status != model.StatusSkipped {
		t.Fatalf("results = %+v", results)
	}
	if arch.Len() != 0 {
		t.Error("skipped items are not re-recorded")
	}
}

func TestProcess_TaskDeadlineApplied(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "video1.mp4")

	tr := &stubTranscoder{}
	p, _ := newTestPipeline(t, config.DefaultSettings(), tr)
	p.Process(context.Background(), []model.Task{model.NewTask(src, "", "")})
	if !tr.sawDeadline {
		t.Error("transcode context should carry the configured deadline")
	}

	settings := config.DefaultSettings()
	settings.TaskTimeoutMinutes = 0
	tr2 := &stubTranscoder{}
	p2, _ := newTestPipeline(t, settings, tr2)
	src2 := writeSource(t, dir, "video2.mp4")
	p2.Process(context.Background(), []model.Task{model.NewTask(src2, "", "")})
	if tr2.sawDeadline {
		t.Error("zero timeout should disable the per-task deadline")
	}
}

func TestProcess_EmptyQueue(t *testing.T) {
	p, _ := newTestPipeline(t, config.DefaultSettings(), &stubTranscoder{})
	if results := p.Process(context.Background(), nil); results != nil {
		t.Errorf("expected nil results for empty queue, got %+v", results)
	}
}
