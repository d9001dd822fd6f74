// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/core/domain"
)

// Bar displays the current session, save status, and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session *domain.Session
	save    domain.SaveStatus
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		save:   domain.SaveIdle,
		width:  80,
	}
}

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(w int) {
	b.width = w
}

// SetSession sets the displayed session.
func (b *Bar) SetSession(s *domain.Session) {
	b.session = s
}

// SetSaveStatus sets the displayed save status.
func (b *Bar) SetSaveStatus(s domain.SaveStatus) {
	b.save = s
}

// SetMessage sets a transient message shown in place of hints.
func (b *Bar) SetMessage(msg string) {
	b.message = msg
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderSave()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft shows the session or a transient message.
func (b *Bar) renderLeft() string {
	if b.message != "" {
		return b.styles.Warning.Render(b.message)
	}
	if b.session == nil {
		return b.styles.Muted.Render("no file open")
	}
	return fmt.Sprintf("%s (%d records)", b.session.SourceName, b.session.RecordCount)
}

// renderSave colours the save status by severity.
func (b *Bar) renderSave() string {
	label := b.save.String()
	switch b.save {
	case domain.SaveIdle:
		return b.styles.Success.Render(label)
	case domain.SavePending, domain.SaveWriting:
		return b.styles.Warning.Render(label)
	case domain.SaveError:
		return b.styles.Error.Render(label + " (kept in memory)")
	default:
		return label
	}
}
