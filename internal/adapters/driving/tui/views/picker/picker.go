// Package picker provides the source file picker view for the TUI.
package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/messages"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/core/ports/driving"
)

// View lists curable files in the session directory.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	curation driving.CurationService

	directory    string
	names        []string
	selected     int
	width        int
	height       int
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new picker view.
func NewView(s *styles.Styles, km *keymap.KeyMap, curation driving.CurationService, directory string) *View {
	return &View{
		styles:    s,
		keymap:    km,
		curation:  curation,
		directory: directory,
		names:     []string{},
	}
}

// Init loads the initial file listing.
func (v *View) Init() tea.Cmd {
	return v.loadSources()
}

// loadSources returns a command that lists curable files.
func (v *View) loadSources() tea.Cmd {
	return func() tea.Msg {
		if v.curation == nil {
			return messages.SourcesLoaded{Err: fmt.Errorf("curation service not available")}
		}

		names, err := v.curation.ListSources(context.Background())
		return messages.SourcesLoaded{Names: names, Err: err}
	}
}

// Update handles messages for the picker view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.names = msg.Names
		if v.selected >= len(v.names) {
			v.selected = len(v.names) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		return v, nil

	case messages.DirectoryChanged:
		// External edit or new file; relist without losing the cursor.
		return v, v.loadSources()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.names)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.names) {
			name := v.names[v.selected]
			return v, func() tea.Msg {
				return messages.OpenRequested{Name: name}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadSources()
	}

	return v, nil
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns how many rows fit between chrome lines.
func (v *View) visibleItemCount() int {
	reserved := 7
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Curate - %s", v.directory)
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Listing files..."))
		b.WriteString("\n")
	} else if len(v.names) == 0 {
		b.WriteString(v.styles.Muted.Render("No .jsonl or .csv files found. Add one and press r."))
		b.WriteString("\n")
	} else {
		visible := v.visibleItemCount()
		end := v.scrollOffset + visible
		if end > len(v.names) {
			end = len(v.names)
		}
		for i := v.scrollOffset; i < end; i++ {
			line := v.names[i]
			if i == v.selected {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + line))
			}
			b.WriteString("\n")
		}
		if end < len(v.names) {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(v.names)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(renderHelp(v.keymap.PickerHelp())))

	return b.String()
}

// renderHelp joins keybinding hints like "enter: select | r: refresh".
func renderHelp(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(hints, " | ")
}
