package model

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a user-facing status update emitted by the fetch
// and processing stages. The CLI renders these to the terminal; the TUI
// collects them into its log pane.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}
