package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/core/domain"
)

// writeRecorder is a thread-safe write-call log for pipeline tests.
type writeRecorder struct {
	mu     sync.Mutex
	texts  []string
	err    error
	block  chan struct{} // when set, Write waits until it is closed
	active int
	maxAct int
}

func (w *writeRecorder) write(_ context.Context, text string) error {
	w.mu.Lock()
	w.active++
	if w.active > w.maxAct {
		w.maxAct = w.active
	}
	block := w.block
	w.mu.Unlock()

	if block != nil {
		<-block
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.active--
	if w.err != nil {
		return w.err
	}
	w.texts = append(w.texts, text)
	return nil
}

func (w *writeRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.texts)
}

func (w *writeRecorder) last() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.texts) == 0 {
		return ""
	}
	return w.texts[len(w.texts)-1]
}

func snapshotConst(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

const testQuiet = 30 * time.Millisecond

func TestAutosave_Coalescing(t *testing.T) {
	t.Run("a burst of mutations produces exactly one write", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		for i := 0; i < 10; i++ {
			a.Schedule()
		}
		assert.Equal(t, domain.SavePending, a.Status())

		require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
		// Quiet period has passed; no further writes may appear.
		time.Sleep(3 * testQuiet)
		assert.Equal(t, 1, rec.count())
		assert.Equal(t, domain.SaveIdle, a.Status())
	})

	t.Run("spaced mutations produce one write each", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		for i := 0; i < 3; i++ {
			a.Schedule()
			require.Eventually(t, func() bool { return rec.count() == i+1 }, time.Second, 5*time.Millisecond)
		}
		assert.Equal(t, 3, rec.count())
	})
}

func TestAutosave_Bootstrap(t *testing.T) {
	t.Run("writes immediately without debounce", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(time.Hour, snapshotConst("bootstrap"), rec.write, nil)
		defer a.Close()

		require.NoError(t, a.Bootstrap(context.Background()))

		assert.Equal(t, 1, rec.count())
		assert.Equal(t, "bootstrap", rec.last())
		assert.Equal(t, domain.SaveIdle, a.Status())
	})
}

func TestAutosave_SingleWriter(t *testing.T) {
	t.Run("mutations during a write re-arm instead of racing", func(t *testing.T) {
		rec := &writeRecorder{block: make(chan struct{})}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		a.Schedule()
		require.Eventually(t, func() bool {
			return a.Status() == domain.SaveWriting
		}, time.Second, time.Millisecond)

		// Mutations arrive while the write is blocked in flight.
		a.Schedule()
		a.Schedule()

		close(rec.block)

		// The re-armed timer captures them in a second write.
		require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
		time.Sleep(3 * testQuiet)
		assert.Equal(t, 2, rec.count())

		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Equal(t, 1, rec.maxAct, "writes must never overlap")
	})

	t.Run("a write issued mid-flight folds into the re-arm cycle", func(t *testing.T) {
		rec := &writeRecorder{block: make(chan struct{})}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		a.Schedule()
		require.Eventually(t, func() bool {
			return a.Status() == domain.SaveWriting
		}, time.Second, time.Millisecond)

		// An immediate write against an in-flight one must not enter the
		// write path; it re-arms instead.
		require.NoError(t, a.Bootstrap(context.Background()))
		rec.mu.Lock()
		assert.Equal(t, 1, rec.active, "only the original write is in flight")
		rec.mu.Unlock()

		close(rec.block)

		require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Equal(t, 1, rec.maxAct, "writes must never overlap")
	})
}

func TestAutosave_ErrorHandling(t *testing.T) {
	t.Run("failed write surfaces error and is not retried", func(t *testing.T) {
		rec := &writeRecorder{err: errors.New("disk gone")}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		a.Schedule()

		require.Eventually(t, func() bool {
			return a.Status() == domain.SaveError
		}, time.Second, 5*time.Millisecond)
		time.Sleep(3 * testQuiet)
		assert.Equal(t, domain.SaveError, a.Status())
	})

	t.Run("next mutation re-arms after an error", func(t *testing.T) {
		rec := &writeRecorder{err: errors.New("disk gone")}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		a.Schedule()
		require.Eventually(t, func() bool {
			return a.Status() == domain.SaveError
		}, time.Second, 5*time.Millisecond)

		rec.mu.Lock()
		rec.err = nil
		rec.mu.Unlock()

		a.Schedule()
		require.Eventually(t, func() bool {
			return a.Status() == domain.SaveIdle
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, 1, rec.count())
	})
}

func TestAutosave_StatusNotifications(t *testing.T) {
	t.Run("reports pending, writing, idle in order", func(t *testing.T) {
		var mu sync.Mutex
		var seen []domain.SaveStatus
		notify := func(s domain.SaveStatus) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		}

		rec := &writeRecorder{}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, notify)
		defer a.Close()

		a.Schedule()
		require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(seen) >= 3
		}, time.Second, 5*time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []domain.SaveStatus{domain.SavePending, domain.SaveWriting, domain.SaveIdle}, seen[:3])
	})
}

func TestAutosave_Flush(t *testing.T) {
	t.Run("writes pending mutations immediately", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(time.Hour, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		a.Schedule()
		require.NoError(t, a.Flush(context.Background()))

		assert.Equal(t, 1, rec.count())
		assert.Equal(t, domain.SaveIdle, a.Status())
	})

	t.Run("no-op when nothing is pending", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(time.Hour, snapshotConst("state"), rec.write, nil)
		defer a.Close()

		require.NoError(t, a.Flush(context.Background()))
		assert.Equal(t, 0, rec.count())
	})
}

func TestAutosave_Close(t *testing.T) {
	t.Run("pending timer never fires after close", func(t *testing.T) {
		rec := &writeRecorder{}
		a := NewAutosave(testQuiet, snapshotConst("state"), rec.write, nil)

		a.Schedule()
		a.Close()

		time.Sleep(3 * testQuiet)
		assert.Equal(t, 0, rec.count())
	})
}
