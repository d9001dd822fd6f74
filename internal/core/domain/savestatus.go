package domain

// SaveStatus reports where the autosave pipeline is in its cycle.
type SaveStatus int

const (
	// SaveIdle means all mutations have been persisted.
	SaveIdle SaveStatus = iota

	// SavePending means mutations are waiting out the quiet period.
	SavePending

	// SaveWriting means a write is in flight.
	SaveWriting

	// SaveError means the last write failed; the document is intact in
	// memory and the next mutation re-arms a retry.
	SaveError
)

// String returns the string representation of the save status.
func (s SaveStatus) String() string {
	switch s {
	case SaveIdle:
		return "saved"
	case SavePending:
		return "pending"
	case SaveWriting:
		return "saving"
	case SaveError:
		return "error"
	default:
		return "unknown"
	}
}
