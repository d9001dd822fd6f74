// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and as reference implementations.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/ports/driven"
)

// Ensure Gateway implements the interface.
var _ driven.StorageGateway = (*Gateway)(nil)

// Gateway is an in-memory implementation of driven.StorageGateway.
// Writes replace content wholesale, so atomicity holds trivially.
type Gateway struct {
	mu    sync.RWMutex
	files map[string]string

	// WriteErr, when set, is returned by every Write. Lets tests
	// exercise the autosave error path.
	WriteErr error

	// Writes counts Write calls per artifact name.
	Writes map[string]int
}

// NewGateway creates an empty in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		files:  make(map[string]string),
		Writes: make(map[string]int),
	}
}

// Seed pre-populates an artifact.
func (g *Gateway) Seed(name, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files[name] = text
}

// Content returns an artifact's current text and whether it exists.
func (g *Gateway) Content(name string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	text, ok := g.files[name]
	return text, ok
}

type handle struct {
	name string
}

func (h handle) Name() string { return h.name }

// Exists reports whether the named artifact exists.
func (g *Gateway) Exists(_ context.Context, name string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.files[name]
	return ok, nil
}

// Read returns the artifact's full text.
func (g *Gateway) Read(_ context.Context, h driven.Handle) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	text, ok := g.files[h.Name()]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

// CreateOrOpen returns a handle, creating the artifact empty if absent.
func (g *Gateway) CreateOrOpen(_ context.Context, name string) (driven.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.files[name]; !ok {
		g.files[name] = ""
	}
	return handle{name: name}, nil
}

// Write replaces the artifact's content.
func (g *Gateway) Write(_ context.Context, h driven.Handle, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Writes[h.Name()]++
	if g.WriteErr != nil {
		return g.WriteErr
	}
	g.files[h.Name()] = text
	return nil
}

// List enumerates artifacts by extension, excluding output names.
func (g *Gateway) List(_ context.Context, extensions []string, excludeSuffix string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var names []string
	for name := range g.files {
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
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}

func hasOutputSuffix(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	dot := strings.LastIndex(name, ".")
	base := name
	if dot >= 0 {
		base = name[:dot]
	}
	return strings.HasSuffix(base, suffix)
}
