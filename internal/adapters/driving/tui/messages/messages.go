// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/curiolabs/curio/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewPicker is the source file picker.
	ViewPicker ViewType = iota
	// ViewRecords is the record annotation view.
	ViewRecords
	// ViewGrid is the tabular grid view.
	ViewGrid
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewPicker:
		return "picker"
	case ViewRecords:
		return "records"
	case ViewGrid:
		return "grid"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SourcesLoaded carries the curable file listing.
type SourcesLoaded struct {
	Names []string
	Err   error
}

// OpenRequested asks the controller to open a source.
type OpenRequested struct {
	Name string
}

// SourceOpened signals a session swap completed (or failed).
type SourceOpened struct {
	Session *domain.Session
	Err     error
}

// SaveStatusChanged carries autosave pipeline transitions.
type SaveStatusChanged struct {
	Status domain.SaveStatus
}

// DirectoryChanged signals the watched directory's contents changed.
type DirectoryChanged struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
