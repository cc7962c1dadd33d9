// Package model defines the core data structures shared by the fetch and
// processing stages.
//
// # Task
//
// Task is one finalized source file queued for processing:
//
//	task := model.NewTask("/media/clip [id].mp4", "Clip Title", "Channel")
//
// # Result
//
// Result is the outcome of one Task: success (with output path), skipped
// (already processed), or failed (with reason). One Result exists per Task.
//
// # Event
//
// Event is the tagged-variant form of the fetch engine's callback payloads,
// either EventProgress (byte counters for an in-flight item) or
// EventCompleted (destination file finalized).
package model
