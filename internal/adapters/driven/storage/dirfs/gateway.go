// Package dirfs implements the storage gateway against one local
// directory. The gateway never reads or writes outside its root: every
// artifact name is validated to be a plain file name.
package dirfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/ports/driven"
	"github.com/curiolabs/curio/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.StorageGateway = (*Gateway)(nil)

// Gateway is a directory-scoped filesystem implementation of
// driven.StorageGateway. Writes go to a same-directory temp file and
// are renamed into place, so a reader never observes a partial
// artifact.
type Gateway struct {
	root string
}

// New creates a gateway scoped to the given directory. The directory
// must already exist; the gateway takes no wider capability.
func New(root string) (*Gateway, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, root)
		}
		return nil, fmt.Errorf("checking directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	return &Gateway{root: abs}, nil
}

// Root returns the scoped directory.
func (g *Gateway) Root() string {
	return g.root
}

type handle struct {
	name string
	path string
}

func (h handle) Name() string { return h.name }

// resolve validates a name and maps it inside the root.
func (g *Gateway) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: artifact name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(g.root, name), nil
}

// Exists reports whether the named artifact exists.
func (g *Gateway) Exists(_ context.Context, name string) (bool, error) {
	path, err := g.resolve(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return true, nil
}

// Read returns the artifact's full text.
func (g *Gateway) Read(_ context.Context, h driven.Handle) (string, error) {
	path, err := g.resolve(h.Name())
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, h.Name())
		}
		return "", fmt.Errorf("read %s: %w", h.Name(), err)
	}
	return string(data), nil
}

// CreateOrOpen returns a handle, creating the artifact empty if absent.
func (g *Gateway) CreateOrOpen(_ context.Context, name string) (driven.Handle, error) {
	path, err := g.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", name, err)
	}
	return handle{name: name, path: path}, nil
}

// Write replaces the artifact's content atomically: write a
// same-directory temp file, fsync, rename over the destination. The
// temp file is removed on every failure path.
func (g *Gateway) Write(ctx context.Context, h driven.Handle, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dest, err := g.resolve(h.Name())
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(g.root, "."+h.Name()+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("removing temp file %s: %v", tmpPath, rmErr)
		}
	}

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", h.Name(), err)
	}
	return nil
}

// List enumerates regular files carrying one of the extensions,
// excluding names already carrying the output suffix, sorted
// lexicographically. Dotfiles and the gateway's own temp files are
// skipped.
func (g *Gateway) List(_ context.Context, extensions []string, excludeSuffix string) ([]string, error) {
	entries, err := os.ReadDir(g.root)
	if err != nil {
		return nil, fmt.Errorf("listing directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Type()&fs.ModeType != 0 {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !matchesExtension(name, extensions) {
			continue
		}
		if hasOutputSuffix(name, excludeSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func matchesExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func hasOutputSuffix(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, suffix)
}

// IsNotFound reports whether err is the gateway's not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
