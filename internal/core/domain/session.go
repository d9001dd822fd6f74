package domain

import "time"

// SessionMode says which curation surface a session uses.
type SessionMode string

// Session modes.
const (
	// ModeRecords is line-delimited JSON curation with annotations.
	ModeRecords SessionMode = "records"

	// ModeTable is grid-based curation of delimited text.
	ModeTable SessionMode = "table"
)

// IsValid returns true if the mode is recognised.
func (m SessionMode) IsValid() bool {
	return m == ModeRecords || m == ModeTable
}

// String returns the string representation.
func (m SessionMode) String() string {
	return string(m)
}

// Session records one curation session: a source artifact bound to its
// save target. Persisted to the session store so the picker can order
// recently curated files first.
type Session struct {
	// ID is the unique identifier for the session.
	ID string

	// Directory is the directory the session's capability is scoped to.
	Directory string

	// SourceName is the input artifact's name within the directory.
	SourceName string

	// TargetName is the output artifact's name within the directory.
	TargetName string

	// Mode is the curation surface used.
	Mode SessionMode

	// RecordCount is the number of records loaded at open time.
	RecordCount int

	// OpenedAt is when the session was opened.
	OpenedAt time.Time
}
