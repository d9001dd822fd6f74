package driven

// DirWatcher reports that the watched directory's contents changed.
// Events are coalesced; one notification may stand for many filesystem
// events.
type DirWatcher interface {
	// Changes returns the notification channel. It is closed when the
	// watcher shuts down.
	Changes() <-chan struct{}

	// Close releases the watch and any OS resources behind it.
	Close() error
}
