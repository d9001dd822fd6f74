package driven

import (
	"context"

	"github.com/curiolabs/curio/internal/core/domain"
)

// SessionStore persists curation session history.
// Backed by SQLite for metadata storage.
type SessionStore interface {
	// SaveSession stores or updates a session record.
	SaveSession(ctx context.Context, s *domain.Session) error

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// LastOpened returns, per source name in the directory, the most
	// recent open time. Used to order the picker recent-first.
	LastOpened(ctx context.Context, directory string) (map[string]int64, error)

	// ListRecent returns the most recently opened sessions, newest
	// first, up to limit.
	ListRecent(ctx context.Context, limit int) ([]domain.Session, error)
}
