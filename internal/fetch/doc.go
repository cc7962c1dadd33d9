// Package fetch drives the external fetch engine and feeds the processing
// queue.
//
// # Coordinator
//
// The Coordinator supplies the engine with configuration (output template,
// format selection, subtitle options, retry counts, the engine-owned
// download archive) and an event hook, then consumes the resulting stream:
//
//  1. Progress events update the per-item byte display.
//  2. Completion events release the item's display and, unless the file is
//     already recorded in the processed archive, queue it for processing.
//
// # Failure semantics
//
// An error during one item's fetch never aborts the batch: the engine is
// configured to ignore per-item errors and continue. A failure of the whole
// batch call is logged and the run proceeds to process whatever was already
// queued.
//
// # Engine
//
// The engine itself is opaque. The default implementation wraps the yt-dlp
// tool; tests substitute a stub that replays scripted events.
package fetch
