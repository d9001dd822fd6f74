package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/ports/driven"
	"github.com/curiolabs/curio/internal/core/ports/driving"
	"github.com/curiolabs/curio/internal/logger"
)

// DefaultOutputSuffix is inserted before the extension to name the save
// target: results.jsonl -> results_annotated.jsonl.
const DefaultOutputSuffix = "_annotated"

// Extensions the picker recognises.
const (
	extRecords = ".jsonl"
	extTable   = ".csv"
)

// Ensure Curation implements the driving port.
var _ driving.CurationService = (*Curation)(nil)

// CurationConfig carries the tunables for a curation service.
type CurationConfig struct {
	// Directory is the session's capability scope, used only for
	// session-store bookkeeping; the gateway enforces the boundary.
	Directory string

	// QuietPeriod is the autosave debounce delay.
	QuietPeriod time.Duration

	// OutputSuffix names save targets. Defaults to DefaultOutputSuffix.
	OutputSuffix string

	// AnnotationKey is the reserved record key. Defaults apply.
	AnnotationKey string

	// TelemetryFields never receive annotations. Defaults apply.
	TelemetryFields []string
}

// Curation orchestrates the storage gateway, document codec, autosave
// pipeline, and grid session into one curation session. All state is
// exclusively owned: opening a new source replaces it atomically, and
// the superseded autosave pipeline stays bound to the superseded target.
type Curation struct {
	gateway  driven.StorageGateway
	tables   driven.TableCodec
	sessions driven.SessionStore // optional
	codec    *Codec
	cfg      CurationConfig

	notifyMu sync.RWMutex
	notify   func(domain.SaveStatus)

	mu       sync.Mutex
	session  *domain.Session
	doc      *domain.Document
	overlay  domain.AnnotationOverlay
	grid     *domain.GridSession
	target   driven.Handle
	autosave *Autosave
}

// NewCuration creates a curation service over a directory-scoped
// gateway. sessions may be nil. notify, if non-nil, receives autosave
// status changes (from the timer goroutine; bridge into the UI loop).
func NewCuration(
	gateway driven.StorageGateway,
	tables driven.TableCodec,
	sessions driven.SessionStore,
	cfg CurationConfig,
	notify func(domain.SaveStatus),
) *Curation {
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}
	if cfg.QuietPeriod <= 0 {
		cfg.QuietPeriod = DefaultQuietPeriod
	}
	return &Curation{
		gateway:  gateway,
		tables:   tables,
		sessions: sessions,
		codec:    NewCodec(cfg.AnnotationKey, cfg.TelemetryFields),
		cfg:      cfg,
		notify:   notify,
	}
}

// SetNotify replaces the status listener. The rendering layer calls
// this once its event loop exists; the listener must not call back
// into the service.
func (c *Curation) SetNotify(notify func(domain.SaveStatus)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.notify = notify
}

// notifyStatus dispatches to the current listener, if any.
func (c *Curation) notifyStatus(s domain.SaveStatus) {
	c.notifyMu.RLock()
	notify := c.notify
	c.notifyMu.RUnlock()
	if notify != nil {
		notify(s)
	}
}

// TargetName inserts the output suffix before the extension.
func (c *Curation) TargetName(source string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(source, ext)
	return base + c.cfg.OutputSuffix + ext
}

// OpenSource loads an artifact and swaps the whole session. On any
// failure the previous session remains current; a user-cancelled
// capability prompt surfaces as domain.ErrAborted with no session
// change.
func (c *Curation) OpenSource(ctx context.Context, name string) (*domain.Session, error) {
	mode, err := modeForName(name)
	if err != nil {
		return nil, err
	}
	targetName := c.TargetName(name)

	exists, err := c.gateway.Exists(ctx, targetName)
	if err != nil {
		return nil, fmt.Errorf("probing save target: %w", err)
	}

	// Read from the target when a previous session left one behind,
	// otherwise from the source. The source is probed first: opening a
	// name that does not exist must fail, not materialise an empty
	// artifact.
	readName := name
	if exists {
		readName = targetName
	} else {
		srcExists, err := c.gateway.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", name, err)
		}
		if !srcExists {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
	}
	src, err := c.gateway.CreateOrOpen(ctx, readName)
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, domain.ErrAborted
		}
		return nil, fmt.Errorf("opening %s: %w", readName, err)
	}
	raw, err := c.gateway.Read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", readName, err)
	}

	switch mode {
	case domain.ModeRecords:
		return c.openRecords(ctx, name, targetName, raw, exists)
	default:
		return c.openTable(ctx, name, targetName, raw, exists)
	}
}

// openTarget resolves the save target handle. Deferred until the load
// succeeds so a failed open never leaves a stray target behind to mask
// the source on the next attempt.
func (c *Curation) openTarget(ctx context.Context, targetName string) (driven.Handle, error) {
	target, err := c.gateway.CreateOrOpen(ctx, targetName)
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			return nil, domain.ErrAborted
		}
		return nil, fmt.Errorf("opening save target: %w", err)
	}
	return target, nil
}

func (c *Curation) openRecords(
	ctx context.Context, name, targetName, raw string, preExisting bool,
) (*domain.Session, error) {
	doc, overlay, _ := c.codec.Load(raw)

	target, err := c.openTarget(ctx, targetName)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          uuid.NewString(),
		Directory:   c.cfg.Directory,
		SourceName:  name,
		TargetName:  target.Name(),
		Mode:        domain.ModeRecords,
		RecordCount: doc.Len(),
		OpenedAt:    time.Now(),
	}

	pipeline := NewAutosave(
		c.cfg.QuietPeriod,
		func() (string, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			return c.codec.Serialize(doc, overlay)
		},
		func(ctx context.Context, text string) error {
			return c.gateway.Write(ctx, target, text)
		},
		c.notifyStatus,
	)

	if !preExisting {
		// New session: every annotatable field gets its default entry,
		// persisted once before any user interaction.
		c.codec.InitializeDefaults(doc, overlay)
		if err := pipeline.Bootstrap(ctx); err != nil {
			pipeline.Close()
			return nil, fmt.Errorf("bootstrap write: %w", err)
		}
	}

	c.swap(session, doc, overlay, nil, target, pipeline)
	c.recordSession(ctx, session)
	return session, nil
}

func (c *Curation) openTable(
	ctx context.Context, name, targetName, raw string, preExisting bool,
) (*domain.Session, error) {
	if c.tables == nil {
		return nil, fmt.Errorf("%w: no table codec configured", domain.ErrInvalidInput)
	}
	table, err := c.tables.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding table: %w", err)
	}

	target, err := c.openTarget(ctx, targetName)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          uuid.NewString(),
		Directory:   c.cfg.Directory,
		SourceName:  name,
		TargetName:  target.Name(),
		Mode:        domain.ModeTable,
		RecordCount: table.RowCount(),
		OpenedAt:    time.Now(),
	}

	grid := domain.NewGridSession(table)
	pipeline := NewAutosave(
		c.cfg.QuietPeriod,
		func() (string, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			return c.tables.Encode(table)
		},
		func(ctx context.Context, text string) error {
			return c.gateway.Write(ctx, target, text)
		},
		c.notifyStatus,
	)

	if !preExisting {
		if err := pipeline.Bootstrap(ctx); err != nil {
			pipeline.Close()
			return nil, fmt.Errorf("bootstrap write: %w", err)
		}
	}

	c.swap(session, nil, nil, grid, target, pipeline)
	c.recordSession(ctx, session)
	return session, nil
}

// swap atomically replaces the session. The outgoing pipeline is
// flushed then closed first, so nothing it had in flight can land in
// the new session's artifact: its write closure is bound to the old
// target.
func (c *Curation) swap(
	session *domain.Session,
	doc *domain.Document,
	overlay domain.AnnotationOverlay,
	grid *domain.GridSession,
	target driven.Handle,
	pipeline *Autosave,
) {
	c.mu.Lock()
	old := c.autosave
	c.mu.Unlock()

	if old != nil {
		if err := old.Flush(context.Background()); err != nil {
			logger.Warn("flushing superseded session: %v", err)
		}
		old.Close()
	}

	c.mu.Lock()
	c.session = session
	c.doc = doc
	c.overlay = overlay
	c.grid = grid
	c.target = target
	c.autosave = pipeline
	c.mu.Unlock()
}

// recordSession stores session history; failures only log.
func (c *Curation) recordSession(ctx context.Context, s *domain.Session) {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.SaveSession(ctx, s); err != nil {
		logger.Warn("recording session: %v", err)
	}
}

// ListSources enumerates curable artifacts, recently curated first,
// then lexicographic.
func (c *Curation) ListSources(ctx context.Context) ([]string, error) {
	names, err := c.gateway.List(ctx, []string{extRecords, extTable}, c.cfg.OutputSuffix)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	if c.sessions == nil {
		return names, nil
	}

	opened, err := c.sessions.LastOpened(ctx, c.cfg.Directory)
	if err != nil {
		logger.Warn("loading recent sessions: %v", err)
		return names, nil
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := opened[names[i]], opened[names[j]]
		if oi != oj {
			return oi > oj
		}
		return names[i] < names[j]
	})
	return names, nil
}

// Document returns the loaded document, or nil.
func (c *Curation) Document() *domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Annotations returns the session's overlay.
func (c *Curation) Annotations() domain.AnnotationOverlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

// Annotatable reports whether a field takes annotations.
func (c *Curation) Annotatable(field string) bool {
	return c.codec.Annotatable(field)
}

// AnnotationKey returns the reserved per-record annotation key.
func (c *Curation) AnnotationKey() string {
	return c.codec.AnnotationKey()
}

// Grid returns the grid session, or nil for record sessions.
func (c *Curation) Grid() *domain.GridSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

// Session returns the current session metadata, or nil.
func (c *Curation) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetCorrectness records a verdict and schedules a save.
func (c *Curation) SetCorrectness(recordIndex int, field string, verdict domain.Correctness) error {
	if !verdict.IsValid() {
		return fmt.Errorf("%w: correctness %q", domain.ErrInvalidInput, verdict)
	}
	c.mu.Lock()
	if err := c.checkFieldLocked(recordIndex, field); err != nil {
		c.mu.Unlock()
		return err
	}
	c.overlay.SetCorrectness(recordIndex, field, verdict)
	pipeline := c.autosave
	c.mu.Unlock()

	pipeline.Schedule()
	return nil
}

// SetComment records a comment and schedules a save.
func (c *Curation) SetComment(recordIndex int, field, comment string) error {
	c.mu.Lock()
	if err := c.checkFieldLocked(recordIndex, field); err != nil {
		c.mu.Unlock()
		return err
	}
	c.overlay.SetComment(recordIndex, field, comment)
	pipeline := c.autosave
	c.mu.Unlock()

	pipeline.Schedule()
	return nil
}

// checkFieldLocked validates an annotation mutation at the boundary.
func (c *Curation) checkFieldLocked(recordIndex int, field string) error {
	if c.doc == nil {
		return domain.ErrNoDocument
	}
	rec := c.doc.Record(recordIndex)
	if rec == nil {
		return fmt.Errorf("%w: record %d", domain.ErrOutOfBounds, recordIndex)
	}
	if _, ok := rec.Get(field); !ok {
		return fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	if !c.codec.Annotatable(field) {
		return fmt.Errorf("%w: field %q is not annotatable", domain.ErrInvalidInput, field)
	}
	return nil
}

// CommitCellEdit writes the grid editor's draft into the selected cell
// and schedules a save. The mutation runs under the session lock, the
// same lock the autosave snapshot encodes under, so a timer-goroutine
// write never observes a half-applied row. Reports whether a cell was
// committed.
func (c *Curation) CommitCellEdit(text string, advance domain.MoveDirection) bool {
	c.mu.Lock()
	committed := c.grid != nil && c.grid.CommitEdit(text, advance)
	pipeline := c.autosave
	c.mu.Unlock()
	if committed && pipeline != nil {
		pipeline.Schedule()
	}
	return committed
}

// InsertColumn inserts a grid column under the session lock and
// schedules a save.
func (c *Curation) InsertColumn(name string, index int) error {
	c.mu.Lock()
	if c.grid == nil {
		c.mu.Unlock()
		return domain.ErrNoDocument
	}
	err := c.grid.InsertColumn(name, index)
	pipeline := c.autosave
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if pipeline != nil {
		pipeline.Schedule()
	}
	return nil
}

// DeleteColumn removes a grid column under the session lock and
// schedules a save.
func (c *Curation) DeleteColumn(name string) error {
	c.mu.Lock()
	if c.grid == nil {
		c.mu.Unlock()
		return domain.ErrNoDocument
	}
	err := c.grid.DeleteColumn(name)
	pipeline := c.autosave
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if pipeline != nil {
		pipeline.Schedule()
	}
	return nil
}

// SaveStatus reports the autosave pipeline state.
func (c *Curation) SaveStatus() domain.SaveStatus {
	c.mu.Lock()
	pipeline := c.autosave
	c.mu.Unlock()
	if pipeline == nil {
		return domain.SaveIdle
	}
	return pipeline.Status()
}

// Flush forces pending mutations to disk.
func (c *Curation) Flush(ctx context.Context) error {
	c.mu.Lock()
	pipeline := c.autosave
	c.mu.Unlock()
	if pipeline == nil {
		return nil
	}
	return pipeline.Flush(ctx)
}

// Close flushes and stops the session.
func (c *Curation) Close() error {
	err := c.Flush(context.Background())
	c.mu.Lock()
	if c.autosave != nil {
		c.autosave.Close()
	}
	c.mu.Unlock()
	return err
}

// modeForName maps an extension to a session mode.
func modeForName(name string) (domain.SessionMode, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case extRecords:
		return domain.ModeRecords, nil
	case extTable:
		return domain.ModeTable, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension on %q", domain.ErrInvalidInput, name)
	}
}
