package model

// EventKind distinguishes the fetch engine event variants.
type EventKind int

const (
	// EventProgress reports byte progress for an in-flight item.
	EventProgress EventKind = iota

	// EventCompleted reports that an item's download finished and its
	// destination file is finalized.
	EventCompleted
)

// Event is the normalized form of the fetch engine's native callback shape.
//
// The engine adapter produces Events keyed by a stable item ID: the
// engine-provided ID when present, otherwise the base name of the
// destination file. Callbacks carrying neither are dropped before they
// reach the coordinator.
type Event struct {
	Kind EventKind

	// ItemID identifies the in-flight item across callbacks.
	ItemID string

	// Title is the item's display title, when known.
	Title string

	// Channel is the uploader/channel name, when known.
	Channel string

	// Path is the destination file path. Always set on EventCompleted;
	// may be empty on EventProgress.
	Path string

	// TotalBytes is the known or estimated total size. Zero when the
	// engine could not estimate a size.
	TotalBytes int64

	// DownloadedBytes is the cumulative byte count so far.
	DownloadedBytes int64
}
