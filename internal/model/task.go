package model

import "github.com/google/uuid"

// Task represents one downloaded media file queued for processing.
//
// A Task is created by the fetch coordinator when the fetch engine reports a
// completed item whose output path is not yet present in the processed
// archive. It is owned exclusively by the processing queue until claimed by
// exactly one worker.
type Task struct {
	// ID is a unique identifier used to correlate log lines across stages.
	ID string

	// Path is the finalized source file path on disk.
	Path string

	// Title is the display title reported by the fetch engine.
	// Empty when the engine provided no metadata for the item.
	Title string

	// Channel is the uploader/channel name reported by the fetch engine.
	Channel string
}

// NewTask creates a Task for a finalized source file.
func NewTask(path, title, channel string) Task {
	return Task{
		ID:      uuid.NewString(),
		Path:    path,
		Title:   title,
		Channel: channel,
	}
}

// ResultStatus classifies the outcome of one processed Task.
type ResultStatus int

const (
	// StatusSuccess means the task produced a non-empty output file and was
	// recorded in the processed archive.
	StatusSuccess ResultStatus = iota

	// StatusSkipped means the task was recognized as already processed and
	// was not submitted to the transcoder.
	StatusSkipped

	// StatusFailed means the transcode or rename failed; the source file is
	// left untouched.
	StatusFailed
)

// String returns the lowercase name of the status for log lines.
func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one processed Task.
//
// Exactly one Result is produced per Task regardless of worker count or
// completion order.
type Result struct {
	// Task is the task this result belongs to.
	Task Task

	// Status classifies the outcome.
	Status ResultStatus

	// OutputPath is the produced file path. Set on success; on skip it
	// carries the path that already carried the processing suffix.
	OutputPath string

	// Err holds the failure reason when Status is StatusFailed.
	Err error
}
