package driven

import "context"

// Handle is an opaque reference to one artifact inside the gateway's
// directory. A handle stays bound to the same artifact for the life of
// the session that obtained it.
type Handle interface {
	// Name returns the artifact's name within the directory.
	Name() string
}

// StorageGateway abstracts artifact storage against a directory-scoped
// capability. The gateway never reaches outside its directory.
//
// Write must be atomic from the caller's point of view: a concurrent
// reader never observes a partially written artifact. Implementations
// report a missing artifact with domain.ErrNotFound and a user-cancelled
// capability prompt with domain.ErrAborted.
type StorageGateway interface {
	// Exists reports whether the named artifact exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Read returns the full text of the artifact behind the handle.
	Read(ctx context.Context, h Handle) (string, error)

	// CreateOrOpen returns a handle to the named artifact, creating it
	// empty when absent.
	CreateOrOpen(ctx context.Context, name string) (Handle, error)

	// Write replaces the artifact's content atomically.
	Write(ctx context.Context, h Handle, text string) error

	// List enumerates artifact names carrying one of the given
	// extensions, excluding names that already carry excludeSuffix
	// before the extension, sorted lexicographically.
	List(ctx context.Context, extensions []string, excludeSuffix string) ([]string, error)
}
