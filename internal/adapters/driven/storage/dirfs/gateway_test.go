package dirfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("scopes to an existing directory", func(t *testing.T) {
		dir := t.TempDir()

		g, err := New(dir)

		require.NoError(t, err)
		assert.Equal(t, dir, g.Root())
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope"))

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("a file is not a directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "f.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := New(path)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestGateway_ExistsReadWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("create, write, read round trip", func(t *testing.T) {
		g, err := New(t.TempDir())
		require.NoError(t, err)

		h, err := g.CreateOrOpen(ctx, "out.jsonl")
		require.NoError(t, err)

		require.NoError(t, g.Write(ctx, h, "{\"a\":1}\n"))

		got, err := g.Read(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1}\n", got)

		ok, err := g.Exists(ctx, "out.jsonl")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("exists is false for absent artifacts", func(t *testing.T) {
		g, err := New(t.TempDir())
		require.NoError(t, err)

		ok, err := g.Exists(ctx, "ghost.jsonl")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("write replaces content wholesale", func(t *testing.T) {
		g, err := New(t.TempDir())
		require.NoError(t, err)
		h, err := g.CreateOrOpen(ctx, "f.csv")
		require.NoError(t, err)

		require.NoError(t, g.Write(ctx, h, "long old content\nmany lines\n"))
		require.NoError(t, g.Write(ctx, h, "new\n"))

		got, err := g.Read(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, "new\n", got)
	})

	t.Run("write leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		g, err := New(dir)
		require.NoError(t, err)
		h, err := g.CreateOrOpen(ctx, "f.jsonl")
		require.NoError(t, err)

		require.NoError(t, g.Write(ctx, h, "data\n"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("names outside the directory are rejected", func(t *testing.T) {
		g, err := New(t.TempDir())
		require.NoError(t, err)

		_, err = g.CreateOrOpen(ctx, "../escape.jsonl")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = g.Exists(ctx, "sub/child.jsonl")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestGateway_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters extensions and output suffix, sorted", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"b.jsonl", "a.jsonl", "t.csv",
			"a_annotated.jsonl", "t_annotated.csv",
			"readme.md", ".hidden.jsonl",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		g, err := New(dir)
		require.NoError(t, err)

		names, err := g.List(ctx, []string{".jsonl", ".csv"}, "_annotated")
		require.NoError(t, err)

		assert.Equal(t, []string{"a.jsonl", "b.jsonl", "t.csv"}, names)
	})

	t.Run("subdirectories are skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.jsonl"), 0o755))
		g, err := New(dir)
		require.NoError(t, err)

		names, err := g.List(ctx, []string{".jsonl"}, "_annotated")
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
