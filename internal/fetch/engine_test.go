package fetch

import (
	"testing"

	"github.com/lrstanley/go-ytdlp"

	"github.com/hsalam/ytproc/internal/model"
)

func strPtr(s string) *string { return &s }

func TestAdaptUpdate_KeyFromEngineID(t *testing.T) {
	ev, ok := adaptUpdate(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		Filename:        "/tmp/out/video one.mp4",
		TotalBytes:      2048,
		DownloadedBytes: 512,
		Info: &ytdlp.ExtractedInfo{
			ID:      "abc123",
			Title:   strPtr("Video One"),
			Channel: strPtr("Some Channel"),
		},
	})
	if !ok {
		t.Fatal("update with an engine ID must not be dropped")
	}
	if ev.Kind != model.EventProgress {
		t.Errorf("kind = %v, want EventProgress", ev.Kind)
	}
	if ev.ItemID != "abc123" {
		t.Errorf("item key = %q, want engine ID %q", ev.ItemID, "abc123")
	}
	if ev.Title != "Video One" || ev.Channel != "Some Channel" {
		t.Errorf("metadata = %q/%q, want Video One/Some Channel", ev.Title, ev.Channel)
	}
	if ev.TotalBytes != 2048 || ev.DownloadedBytes != 512 {
		t.Errorf("bytes = %d/%d, want 2048/512", ev.DownloadedBytes, ev.TotalBytes)
	}
}

func TestAdaptUpdate_KeyFallsBackToFilename(t *testing.T) {
	// Fragmented or metadata-less callbacks carry no engine ID. The item
	// key falls back to the destination basename so updates for the same
	// file keep feeding one display entry.
	ev, ok := adaptUpdate(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		Filename:        "/tmp/out/video one.mp4",
		DownloadedBytes: 100,
	})
	if !ok {
		t.Fatal("update with a filename must not be dropped")
	}
	if ev.ItemID != "video one.mp4" {
		t.Errorf("item key = %q, want basename fallback %q", ev.ItemID, "video one.mp4")
	}
}

func TestAdaptUpdate_KeylessUpdateDropped(t *testing.T) {
	// No engine ID and no filename: nothing to key a display entry on,
	// and a nil Info must not panic.
	if _, ok := adaptUpdate(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		DownloadedBytes: 100,
	}); ok {
		t.Error("keyless update must be dropped")
	}
}

func TestAdaptUpdate_FinishedMapsToCompleted(t *testing.T) {
	ev, ok := adaptUpdate(ytdlp.ProgressUpdate{
		Status:   ytdlp.ProgressStatusFinished,
		Filename: "/tmp/out/video two.mp4",
		Info:     &ytdlp.ExtractedInfo{ID: "def456"},
	})
	if !ok {
		t.Fatal("finished update must not be dropped")
	}
	if ev.Kind != model.EventCompleted {
		t.Errorf("kind = %v, want EventCompleted", ev.Kind)
	}
	if ev.ItemID != "def456" || ev.Path != "/tmp/out/video two.mp4" {
		t.Errorf("got %q/%q, want def456 with completed path", ev.ItemID, ev.Path)
	}
}

func TestAdaptUpdate_OtherStatusesDropped(t *testing.T) {
	for _, status := range []ytdlp.ProgressStatus{
		ytdlp.ProgressStatusStarting,
		ytdlp.ProgressStatusPostProcessing,
		ytdlp.ProgressStatusError,
	} {
		if _, ok := adaptUpdate(ytdlp.ProgressUpdate{
			Status:   status,
			Filename: "/tmp/out/video three.mp4",
		}); ok {
			t.Errorf("status %q must be dropped", status)
		}
	}
}
