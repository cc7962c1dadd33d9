// Package run wires the pipeline stages into a single run.
//
// The Runner is the process-scoped context for one invocation: it owns the
// settings, the log sink, and the loaded processed archive, and passes them
// explicitly to the stage constructors instead of relying on ambient
// globals.
//
// Control flow: resolve the identifier, fetch the resolved URLs (populating
// the task queue), process the queue, report a summary. Fatal input errors
// abort before any I/O; everything past that point degrades per item and the
// run always reaches its completion line.
package run
