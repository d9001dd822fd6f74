package driving

import (
	"context"

	"github.com/curiolabs/curio/internal/core/domain"
)

// CurationService is the UI-facing surface of a curation session. The
// rendering layer calls in; all mutations funnel through here so the
// autosave pipeline sees every change.
type CurationService interface {
	// OpenSource loads the named artifact from the session directory,
	// resolves or creates its save target, and atomically replaces the
	// whole session. A new session (no pre-existing target) triggers
	// one immediate persisted write before this returns.
	OpenSource(ctx context.Context, name string) (*domain.Session, error)

	// ListSources enumerates curable artifacts in the directory,
	// recently curated first, then lexicographic.
	ListSources(ctx context.Context) ([]string, error)

	// Document returns the loaded document, or nil.
	Document() *domain.Document

	// Annotations returns the session's annotation overlay.
	Annotations() domain.AnnotationOverlay

	// Annotatable reports whether a field takes annotations.
	// Telemetry/system fields round-trip unchanged but are never
	// annotated.
	Annotatable(field string) bool

	// AnnotationKey returns the reserved per-record annotation key.
	// The rendering layer hides it from field listings.
	AnnotationKey() string

	// SetCorrectness records a correctness verdict and schedules a save.
	SetCorrectness(recordIndex int, field string, c domain.Correctness) error

	// SetComment records a field comment and schedules a save.
	SetComment(recordIndex int, field, comment string) error

	// Grid returns the grid session for tabular curation, or nil when
	// the session is not tabular.
	Grid() *domain.GridSession

	// CommitCellEdit writes the grid editor's draft into the selected
	// cell and schedules a save. Table mutations funnel through the
	// service so the autosave snapshot never observes a partial write.
	// Reports whether a cell was committed.
	CommitCellEdit(text string, advance domain.MoveDirection) bool

	// InsertColumn inserts a grid column at the given header index,
	// back-filling every row with the empty string, and schedules a
	// save.
	InsertColumn(name string, index int) error

	// DeleteColumn removes a grid column and schedules a save.
	DeleteColumn(name string) error

	// SaveStatus reports the autosave pipeline state.
	SaveStatus() domain.SaveStatus

	// Flush forces any pending mutations to disk. Used on shutdown.
	Flush(ctx context.Context) error

	// Close releases the session's resources.
	Close() error
}
