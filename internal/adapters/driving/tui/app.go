package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curiolabs/curio/internal/adapters/driving/tui/components/status"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/messages"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/views/grid"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/views/picker"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/views/records"
	"github.com/curiolabs/curio/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// pickerView lists curable files in the directory.
	pickerView *picker.View

	// recordsView annotates record sessions field by field.
	recordsView *records.View

	// gridView edits tabular sessions in place.
	gridView *grid.View

	// statusBar shows the session and the autosave state.
	statusBar *status.Bar

	// session is the currently open session, or nil.
	session *domain.Session

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. directory
// is shown in the picker title; the curation service is already scoped
// to it.
func NewApp(ports *Ports, directory string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		pickerView:  picker.NewView(s, km, ports.Curation, directory),
		recordsView: records.NewView(s, km, ports.Curation),
		gridView:    grid.NewView(s, km, ports.Curation),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewPicker,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("curio - Data Curation"),
		a.pickerView.Init(),
	}
	if a.ports.Watcher != nil {
		cmds = append(cmds, a.waitForDirectoryChange())
	}
	return tea.Batch(cmds...)
}

// waitForDirectoryChange returns a command that blocks on the next
// watcher notification. Re-armed after every delivery.
func (a *App) waitForDirectoryChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-a.ports.Watcher.Changes(); !ok {
			return nil
		}
		return messages.DirectoryChanged{}
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		// Reserve the bottom line for the status bar.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1}
		a.pickerView, _ = a.pickerView.Update(inner)
		a.recordsView, _ = a.recordsView.Update(inner)
		a.gridView, _ = a.gridView.Update(inner)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c; Flush happens after the program
		// loop exits.
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewPicker:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			if msg.String() == "?" {
				a.currentView = messages.ViewHelp
				return a, nil
			}
			a.pickerView, cmd = a.pickerView.Update(msg)
			return a, cmd

		case messages.ViewRecords:
			a.recordsView, cmd = a.recordsView.Update(msg)
			return a, cmd

		case messages.ViewGrid:
			a.gridView, cmd = a.gridView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			if msg.String() == "esc" || msg.String() == "q" {
				a.currentView = messages.ViewPicker
			}
			return a, nil
		}
		return a, nil

	case messages.OpenRequested:
		return a, a.openSource(msg.Name)

	case messages.SourceOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.session = msg.Session
		a.statusBar.SetMessage("")
		a.statusBar.SetSession(msg.Session)
		a.statusBar.SetSaveStatus(a.ports.Curation.SaveStatus())
		if msg.Session.Mode == domain.ModeTable {
			a.gridView.SetSession(msg.Session)
			a.currentView = messages.ViewGrid
		} else {
			a.recordsView.SetSession(msg.Session)
			a.currentView = messages.ViewRecords
		}
		return a, nil

	case messages.SaveStatusChanged:
		a.statusBar.SetSaveStatus(msg.Status)
		return a, nil

	case messages.DirectoryChanged:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, tea.Batch(cmd, a.waitForDirectoryChange())

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewPicker {
			return a, a.pickerView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewRecords:
			a.recordsView, cmd = a.recordsView.Update(msg)
		case messages.ViewGrid:
			a.gridView, cmd = a.gridView.Update(msg)
		case messages.ViewPicker:
			a.pickerView, cmd = a.pickerView.Update(msg)
		case messages.ViewHelp:
			// Help view doesn't handle errors.
		}
		return a, cmd
	}

	// Forward other messages to the active view.
	switch a.currentView {
	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewGrid:
		a.gridView, cmd = a.gridView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages.
	}

	return a, cmd
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready reports whether the first window size arrived.
func (a *App) Ready() bool {
	return a.ready
}

// Err returns the last error the app recorded.
func (a *App) Err() error {
	return a.err
}

// openSource returns a command that opens the named source. Opening
// swaps the whole session; the previous session's pending writes are
// flushed before the swap completes.
func (a *App) openSource(name string) tea.Cmd {
	return func() tea.Msg {
		session, err := a.ports.Curation.OpenSource(a.ctx, name)
		return messages.SourceOpened{Session: session, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPicker:
		body = a.pickerView.View()
	case messages.ViewRecords:
		body = a.recordsView.View()
	case messages.ViewGrid:
		body = a.gridView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.pickerView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Picker:
  j/k, ↑/↓    Navigate files
  enter       Open for curation
  r           Refresh listing
  q           Quit

Records:
  j/k, ↑/↓    Navigate fields
  h/l, ←/→    Previous/next record
  y / n / u   Mark correct / incorrect / unchecked
  c           Edit comment (enter saves, esc discards)
  esc         Back to picker

Grid:
  arrows      Move selection
  enter       Edit cell (enter commits, esc discards)
  i / I       Insert column right/left
  D           Delete selected column
  click       Select cell; click again to edit
  drag        Header boundary resizes column, gutter resizes row
  esc         Back to picker

[esc] back to picker`
}

// Run starts the TUI application with mouse support and delivers
// autosave status changes into the program loop.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if relay, ok := a.ports.Curation.(interface {
		SetNotify(func(domain.SaveStatus))
	}); ok {
		relay.SetNotify(func(s domain.SaveStatus) {
			p.Send(messages.SaveStatusChanged{Status: s})
		})
	}

	_, err := p.Run()

	// Best-effort flush of anything the quit raced with.
	if ferr := a.ports.Curation.Flush(a.ctx); ferr != nil && err == nil {
		err = ferr
	}
	if cerr := a.ports.Curation.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
