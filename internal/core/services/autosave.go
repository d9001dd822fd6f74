package services

import (
	"context"
	"sync"
	"time"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/logger"
)

// DefaultQuietPeriod is the delay after the last mutation before an
// autosave write is issued.
const DefaultQuietPeriod = 500 * time.Millisecond

// Autosave converts a burst of mutations into a single durable write
// after a quiet period. One instance is bound to exactly one save
// target for its lifetime; opening a new source builds a new pipeline.
//
// Discipline: a write is never issued while a previous write for the
// target is in flight. Mutations arriving during a write re-arm the
// quiet period so they land in the next write instead of racing the
// current one.
type Autosave struct {
	quiet    time.Duration
	snapshot func() (string, error)
	write    func(ctx context.Context, text string) error
	notify   func(domain.SaveStatus)

	mu      sync.Mutex
	timer   *time.Timer
	status  domain.SaveStatus
	writing bool
	rearm   bool
	closed  bool
}

// NewAutosave creates a pipeline. snapshot serializes the current
// session state; write persists it. notify, if non-nil, is called on
// every status change (possibly from the timer goroutine) and must not
// call back into the pipeline.
func NewAutosave(
	quiet time.Duration,
	snapshot func() (string, error),
	write func(ctx context.Context, text string) error,
	notify func(domain.SaveStatus),
) *Autosave {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Autosave{
		quiet:    quiet,
		snapshot: snapshot,
		write:    write,
		notify:   notify,
		status:   domain.SaveIdle,
	}
}

// Status returns the pipeline state.
func (a *Autosave) Status() domain.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Schedule (re)starts the quiet-period timer. A call while a timer is
// already pending cancels and restarts it, so intermediate states are
// never persisted individually. A call during an in-flight write
// re-arms the timer for after the write resolves.
func (a *Autosave) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	if a.writing {
		a.rearm = true
		return
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.quiet, a.fire)
	a.setStatusLocked(domain.SavePending)
}

// fire runs when the quiet period elapses uninterrupted.
func (a *Autosave) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.performWrite(context.Background())
}

// performWrite serializes and writes under the single-writer guard,
// then resolves the status and any re-arm request. The guard is
// checked and set in one critical section, so a timer firing while a
// write is in flight re-arms instead of issuing a second write.
func (a *Autosave) performWrite(ctx context.Context) error {
	a.mu.Lock()
	if a.writing {
		a.rearm = true
		a.mu.Unlock()
		return nil
	}
	a.writing = true
	a.setStatusLocked(domain.SaveWriting)
	a.mu.Unlock()

	text, err := a.snapshot()
	if err == nil {
		err = a.write(ctx, text)
	}

	a.mu.Lock()
	a.writing = false
	if err != nil {
		logger.Error("autosave write failed: %v", err)
		a.setStatusLocked(domain.SaveError)
	} else {
		a.setStatusLocked(domain.SaveIdle)
	}
	if a.rearm && !a.closed {
		a.rearm = false
		if a.timer != nil {
			a.timer.Stop()
		}
		a.timer = time.AfterFunc(a.quiet, a.fire)
		a.setStatusLocked(domain.SavePending)
	}
	a.mu.Unlock()

	return err
}

// Bootstrap performs one unconditional, non-debounced write. Used right
// after a load determines the session is new, so the annotated artifact
// exists on disk before any user interaction.
func (a *Autosave) Bootstrap(ctx context.Context) error {
	return a.performWrite(ctx)
}

// Flush cancels any pending timer and writes immediately if mutations
// are outstanding. Used on shutdown and before a session swap.
func (a *Autosave) Flush(ctx context.Context) error {
	a.mu.Lock()
	pending := false
	if a.timer != nil && a.timer.Stop() {
		pending = true
	}
	if a.rearm {
		a.rearm = false
		pending = true
	}
	writing := a.writing
	a.mu.Unlock()

	if writing {
		// The in-flight write carries the current snapshot's data; a
		// flush issued now would violate the single-writer guard.
		return nil
	}
	if !pending {
		return nil
	}
	return a.performWrite(ctx)
}

// Close stops the pipeline. Pending mutations are not written; callers
// flush first when they want durability.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// setStatusLocked updates status and notifies. Caller holds mu.
func (a *Autosave) setStatusLocked(s domain.SaveStatus) {
	if a.status == s {
		return
	}
	a.status = s
	if a.notify != nil {
		a.notify(s)
	}
}
