// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up.
	Up key.Binding

	// Down navigates down.
	Down key.Binding

	// Left navigates left.
	Left key.Binding

	// Right navigates right.
	Right key.Binding

	// Select confirms a selection or enters edit mode.
	Select key.Binding

	// Cancel cancels the current edit.
	Cancel key.Binding

	// MarkYes marks the selected field correct.
	MarkYes key.Binding

	// MarkNo marks the selected field incorrect.
	MarkNo key.Binding

	// MarkUnchecked clears the selected field's verdict.
	MarkUnchecked key.Binding

	// Comment opens the comment editor on the selected field.
	Comment key.Binding

	// InsertRight inserts a column right of the selection.
	InsertRight key.Binding

	// InsertLeft inserts a column left of the selection.
	InsertLeft key.Binding

	// DeleteColumn removes the selected column.
	DeleteColumn key.Binding

	// Refresh relists the directory.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/edit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		MarkYes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "mark correct"),
		),
		MarkNo: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "mark incorrect"),
		),
		MarkUnchecked: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear verdict"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		InsertRight: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert column right"),
		),
		InsertLeft: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "insert column left"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete column"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// PickerHelp returns keybindings for the picker view.
func (k *KeyMap) PickerHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Refresh, k.Quit}
}

// RecordsHelp returns keybindings for the record curation view.
func (k *KeyMap) RecordsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.MarkYes, k.MarkNo, k.Comment, k.Back}
}

// GridHelp returns keybindings for the grid view.
func (k *KeyMap) GridHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.InsertRight, k.DeleteColumn, k.Back}
}
