// Package domain defines the log event shapes shared by the ingest and
// query paths.
package domain

import (
	"encoding/json"
	"time"
)

// Levels the pipeline accepts, lowest to highest severity
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

// ValidLevel reports whether s names a known level
func ValidLevel(s string) bool {
	switch s {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return true
	}
	return false
}

// Event is one submitted log event as it arrives on the wire. Optional
// fields pick up defaults during normalization, not here; level and message
// are caller obligations
type Event struct {
	TS        string         `json:"ts,omitempty"`
	Level     string         `json:"level" validate:"required,oneof=debug info warn error fatal"`
	Message   string         `json:"message" validate:"required,max=1024"`
	Source    string         `json:"source,omitempty" validate:"omitempty,max=64"`
	Env       string         `json:"env,omitempty" validate:"omitempty,max=32"`
	Ctx       map[string]any `json:"ctx,omitempty"`
	UserID    string         `json:"user_id,omitempty" validate:"omitempty,max=64"`
	RequestID string         `json:"request_id,omitempty" validate:"omitempty,max=64"`
	Tags      string         `json:"tags,omitempty" validate:"omitempty,max=128"`
}

// Stored is one persisted log row. Ctx holds the serialized context object
// verbatim so responses replay the caller's JSON without re-shaping it
type Stored struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	TS          time.Time       `json:"ts"`
	Level       string          `json:"level"`
	Message     string          `json:"message"`
	Source      string          `json:"source"`
	Env         string          `json:"env"`
	Ctx         json.RawMessage `json:"ctx,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	Tags        string          `json:"tags,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	DayID       int             `json:"day_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IngestResult is the success payload for one accepted batch
type IngestResult struct {
	Received  int    `json:"received"`
	Processed int64  `json:"processed"`
	RequestID string `json:"requestId"`
}

// QueryInput carries the raw retrieval parameters. Limit and offset arrive
// unclamped; level and since arrive unparsed
type QueryInput struct {
	Limit       int
	Offset      int
	Level       string
	Since       string
	Fingerprint string
}

// QueryFilter is the resolved, store-ready form of QueryInput
type QueryFilter struct {
	ProjectID   int64
	Level       string
	Since       time.Time
	Fingerprint string
	Limit       int
	Offset      int
}

// QueryResult is the retrieval payload: the page plus the effective paging
// values after clamping
type QueryResult struct {
	Items  []Stored `json:"items"`
	Count  int      `json:"count"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// TrackerCount is a fingerprint's running per-minute total after an upsert
type TrackerCount struct {
	Fingerprint string
	MinuteCount int
}
