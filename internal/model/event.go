package model

import "time"

// Event kinds emitted while a log is being parsed.
const (
	EventBuildStarted    = "build-started"
	EventBuildSkipped    = "build-skipped"
	EventCompilerWarning = "compiler-warning"
	EventCompilerError   = "compiler-error"
	EventLinkerWarning   = "linker-warning"
	EventLinkerError     = "linker-error"
	EventOutputFile      = "output-file"
	EventInputFile       = "input-file"
	EventInclude         = "include"
)

// Event is a notification about one parsed item, broadcast to live
// dashboard clients in watch mode. It carries display data only; the
// authoritative state lives in the Build records.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Build     int       `json:"build"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
}

// RawLine is one line read from a log file, tagged with its origin.
type RawLine struct {
	Text   string
	Source string
}
