// Package process implements the processing stage of the pipeline.
//
// # Modes
//
// Video mode transcodes each task with the external transcoder: an output
// path is derived by inserting the processing suffix before a fixed mp4
// container extension, the command line is built from the independent
// video/audio codec axes, and success requires both a zero exit status and a
// non-empty output file. On success the output path is recorded in the
// processed archive and the source file is removed unless keep-original is
// set. On any failure the source file is never touched.
//
// Audio mode performs a sequential rename-only pass, inserting the suffix
// before each file's original extension, and optionally tags mp3 outputs.
//
// # Concurrency
//
// Video tasks are drained by an errgroup pool bounded by the configured
// worker count. Workers are independent: a per-task failure becomes a
// failure Result and never affects sibling tasks. Exactly one Result is
// produced per queued Task regardless of worker count or completion order.
package process
