package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.jsonl"), []byte("{}\n"), 0o644))

	select {
	case _, ok := <-w.Changes():
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "burst.jsonl")
		require.NoError(t, os.WriteFile(name, []byte("{}\n"), 0o644))
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}

	// The burst collapses to at most one queued notification.
	select {
	case <-w.Changes():
	case <-time.After(100 * time.Millisecond):
	}
	select {
	case <-w.Changes():
		t.Fatal("burst produced more than the coalesced notifications")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))

	assert.Error(t, err)
}

func TestWatcher_CloseShutsChannel(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}
