// Package tui provides the interactive curation terminal interface.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/curiolabs/curio/internal/core/ports/driven"
	"github.com/curiolabs/curio/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Curation is the session service every view talks to.
	Curation driving.CurationService

	// Watcher signals external changes to the session directory.
	// Optional; without it the picker only refreshes on demand.
	Watcher driven.DirWatcher
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(curation driving.CurationService, watcher driven.DirWatcher) *Ports {
	return &Ports{
		Curation: curation,
		Watcher:  watcher,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Curation == nil {
		return ErrMissingCurationService
	}
	return nil
}
