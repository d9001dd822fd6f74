// Package grid provides the tabular curation view. It renders the
// table through a grid session and translates key and mouse events
// into that session's state machine.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/curiolabs/curio/internal/adapters/driving/tui/components/input"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/messages"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/ports/driving"
)

// Sizing state lives in the grid session in abstract units so resize
// minimums stay terminal-independent. These scales map units onto
// terminal cells: a fresh column (50 units) renders 12 characters wide
// and a fresh row (30 units) renders one line tall.
const (
	columnScale = 4
	rowScale    = 30

	gutterWidth = 5
	headerRow   = 2 // title line, blank line, then the header
)

// editTarget says what the shared text input is editing.
type editTarget int

const (
	editNone editTarget = iota
	editCell
	editColumnName
)

// View is the grid curation view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	curation driving.CurationService

	session *domain.Session
	editor  *input.FieldInput
	target  editTarget
	// insertAt is the header index a pending column insert lands on.
	insertAt int
	// resizeAxis mirrors the in-flight gesture's axis so motion events
	// feed the right pointer coordinate.
	resizeAxis domain.ResizeAxis
	width      int
	height     int
	err        error
	scroll     int
}

// NewView creates a new grid view.
func NewView(s *styles.Styles, km *keymap.KeyMap, curation driving.CurationService) *View {
	return &View{
		styles:   s,
		keymap:   km,
		curation: curation,
		editor:   input.NewFieldInput(s, "Edit", ""),
	}
}

// SetSession binds the view to a freshly opened tabular session.
func (v *View) SetSession(session *domain.Session) {
	v.session = session
	v.target = editNone
	v.scroll = 0
	v.err = nil
	v.editor.Blur()
	v.editor.Reset()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the grid view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.editor.SetWidth(msg.Width - 4)
		return v, nil

	case tea.KeyMsg:
		if v.target != editNone {
			return v.handleEditorKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		return v.handleMouseMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in navigate mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	grid := v.curation.Grid()
	if grid == nil {
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		grid.Move(domain.MoveUp)
		v.adjustScroll(grid)
	case "down", "j":
		grid.Move(domain.MoveDown)
		v.adjustScroll(grid)
	case "left", "h":
		grid.Move(domain.MoveLeft)
	case "right", "l":
		grid.Move(domain.MoveRight)
	case "enter":
		return v.startCellEdit(grid)
	case "i":
		return v.startColumnInsert(grid, 1)
	case "I":
		return v.startColumnInsert(grid, 0)
	case "D":
		v.deleteSelectedColumn(grid)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPicker}
		}
	}

	return v, nil
}

// startCellEdit opens the editor seeded with the pre-edit cell text.
func (v *View) startCellEdit(grid *domain.GridSession) (*View, tea.Cmd) {
	initial, ok := grid.ActivateEdit()
	if !ok {
		return v, nil
	}
	v.target = editCell
	v.editor.SetLabel("Edit")
	v.editor.SetValue(initial)
	return v, v.editor.Focus()
}

// startColumnInsert opens the name prompt for a column insert. offset 0
// inserts left of the selection, 1 inserts right.
func (v *View) startColumnInsert(grid *domain.GridSession, offset int) (*View, tea.Cmd) {
	table := grid.Table()
	sel := grid.Selection()
	if table == nil {
		return v, nil
	}
	at := table.ColumnCount()
	if sel != nil {
		idx := table.ColumnIndex(sel.Column)
		if idx >= 0 {
			at = idx + offset
		}
	}
	v.insertAt = at
	v.target = editColumnName
	v.editor.SetLabel("New column")
	v.editor.SetValue("")
	return v, v.editor.Focus()
}

// deleteSelectedColumn removes the selected column and persists.
func (v *View) deleteSelectedColumn(grid *domain.GridSession) {
	sel := grid.Selection()
	if sel == nil {
		return
	}
	if err := v.curation.DeleteColumn(sel.Column); err != nil {
		v.err = err
		return
	}
	v.err = nil
}

// handleEditorKeyMsg handles key presses while the shared editor is
// open. Enter and the vertical arrows commit, Escape discards the
// draft.
func (v *View) handleEditorKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	grid := v.curation.Grid()

	switch msg.String() {
	case "enter", "down":
		v.commitEditor(domain.MoveDown)
		return v, nil
	case "up":
		v.commitEditor(domain.MoveUp)
		return v, nil
	case "esc":
		if v.target == editCell && grid != nil {
			grid.CancelEdit()
		}
		v.closeEditor()
		return v, nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// commitEditor applies the draft to the cell or the pending insert.
func (v *View) commitEditor(advance domain.MoveDirection) {
	switch v.target {
	case editCell:
		if v.curation.CommitCellEdit(v.editor.Value(), advance) {
			v.err = nil
		}
	case editColumnName:
		if err := v.curation.InsertColumn(v.editor.Value(), v.insertAt); err != nil {
			v.err = err
		} else {
			v.err = nil
		}
	}
	v.closeEditor()
}

// closeEditor blurs and resets the shared editor.
func (v *View) closeEditor() {
	v.target = editNone
	v.editor.Blur()
	v.editor.Reset()
}

// handleMouseMsg maps pointer events onto the grid state machine.
// Pressing a column boundary in the header, or the row gutter, starts a
// resize gesture; motion updates it; release ends it. Pressing a cell
// activates it, and pressing the already-selected cell opens its editor.
func (v *View) handleMouseMsg(msg tea.MouseMsg) (*View, tea.Cmd) {
	grid := v.curation.Grid()
	if grid == nil || v.target != editNone {
		return v, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return v, nil
		}
		return v.handleMousePress(grid, msg.X, msg.Y)

	case tea.MouseActionMotion:
		if grid.Resizing() {
			grid.UpdateResize(v.resizeCoordinate(msg.X, msg.Y))
		}
		return v, nil

	case tea.MouseActionRelease:
		if grid.Resizing() {
			grid.EndResize()
		}
		return v, nil
	}

	return v, nil
}

// handleMousePress resolves a left press to a boundary, gutter, or cell.
func (v *View) handleMousePress(grid *domain.GridSession, x, y int) (*View, tea.Cmd) {
	table := grid.Table()
	if table == nil {
		return v, nil
	}

	// Header boundary press begins a column resize.
	if y == headerRow {
		if col, onBoundary := v.columnAt(grid, x); onBoundary {
			v.resizeAxis = domain.ResizeColumn
			grid.StartColumnResize(col, x*columnScale)
			return v, nil
		}
		return v, nil
	}

	row, ok := v.rowAt(grid, y)
	if !ok {
		return v, nil
	}

	// Gutter press begins a row resize.
	if x < gutterWidth {
		v.resizeAxis = domain.ResizeRow
		grid.StartRowResize(row, y*rowScale)
		return v, nil
	}

	col, onBoundary := v.columnAt(grid, x)
	if onBoundary || col == "" {
		return v, nil
	}

	sel := grid.Selection()
	if sel != nil && sel.Mode == domain.ModeNavigate && sel.Row == row && sel.Column == col {
		return v.startCellEdit(grid)
	}
	grid.Activate(row, col)
	return v, nil
}

// resizeCoordinate converts a pointer position to abstract units along
// the active gesture's axis.
func (v *View) resizeCoordinate(x, y int) int {
	if v.resizeAxis == domain.ResizeRow {
		return y * rowScale
	}
	return x * columnScale
}

// columnAt maps a terminal x to a column name. onBoundary is true when
// x lands on the separator right of the returned column.
func (v *View) columnAt(grid *domain.GridSession, x int) (string, bool) {
	table := grid.Table()
	if table == nil {
		return "", false
	}
	pos := gutterWidth
	for _, h := range table.Headers {
		w := grid.ColumnWidth(h) / columnScale
		if x < pos+w {
			return h, false
		}
		if x == pos+w {
			return h, true
		}
		pos += w + 1
	}
	return "", false
}

// rowAt maps a terminal y to a table row index, honouring per-row
// heights and the vertical scroll offset.
func (v *View) rowAt(grid *domain.GridSession, y int) (int, bool) {
	table := grid.Table()
	if table == nil {
		return 0, false
	}
	line := headerRow + 1
	for r := v.scroll; r < table.RowCount(); r++ {
		lines := v.rowLines(grid, r)
		if y >= line && y < line+lines {
			return r, true
		}
		line += lines
	}
	return 0, false
}

// rowLines returns the rendered height of a row in terminal lines.
func (v *View) rowLines(grid *domain.GridSession, row int) int {
	lines := grid.RowHeight(row) / rowScale
	if lines < 1 {
		lines = 1
	}
	return lines
}

// adjustScroll keeps the selected row on screen.
func (v *View) adjustScroll(grid *domain.GridSession) {
	sel := grid.Selection()
	if sel == nil {
		return
	}
	visible := v.visibleRowCount()
	if sel.Row < v.scroll {
		v.scroll = sel.Row
	} else if sel.Row >= v.scroll+visible {
		v.scroll = sel.Row - visible + 1
	}
}

// visibleRowCount returns how many single-height rows fit on screen.
func (v *View) visibleRowCount() int {
	reserved := 7
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the grid.
func (v *View) View() string {
	var b strings.Builder

	grid := v.curation.Grid()
	name := ""
	if v.session != nil {
		name = v.session.SourceName
	}
	b.WriteString(v.styles.Title.Render(name))
	b.WriteString("\n\n")

	if grid == nil || grid.Table() == nil {
		b.WriteString(v.styles.Muted.Render("No table loaded."))
		b.WriteString("\n")
		return b.String()
	}
	table := grid.Table()

	b.WriteString(v.renderHeader(grid, table))
	b.WriteString("\n")

	visible := v.visibleRowCount()
	end := v.scroll + visible
	if end > table.RowCount() {
		end = table.RowCount()
	}
	for r := v.scroll; r < end; r++ {
		b.WriteString(v.renderRow(grid, table, r))
		b.WriteString("\n")
	}
	if end < table.RowCount() {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more rows", table.RowCount()-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	}
	if v.target != editNone {
		b.WriteString(v.editor.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("enter: commit | esc: discard"))
	} else {
		b.WriteString(v.styles.Help.Render(renderHelp(v.keymap.GridHelp())))
	}

	return b.String()
}

// renderHeader renders the header line with the row-number gutter.
func (v *View) renderHeader(grid *domain.GridSession, table *domain.Table) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for _, h := range table.Headers {
		w := grid.ColumnWidth(h) / columnScale
		b.WriteString(v.styles.HeaderCell.Render(pad(h, w)))
		b.WriteString("│")
	}
	return b.String()
}

// renderRow renders one data row.
func (v *View) renderRow(grid *domain.GridSession, table *domain.Table, row int) string {
	var b strings.Builder
	b.WriteString(v.styles.Muted.Render(pad(fmt.Sprintf("%d", row+1), gutterWidth-1)))
	b.WriteString(" ")

	sel := grid.Selection()
	for _, h := range table.Headers {
		w := grid.ColumnWidth(h) / columnScale
		text, err := table.Cell(row, h)
		if err != nil {
			text = ""
		}

		style := v.styles.Cell
		if sel != nil && sel.Row == row && sel.Column == h {
			if sel.Mode == domain.ModeEditing {
				style = v.styles.EditingCell
			} else {
				style = v.styles.SelectedCell
			}
		}
		b.WriteString(style.Render(pad(text, w)))
		b.WriteString("│")
	}
	return b.String()
}

// pad fits text into exactly width characters.
func pad(s string, width int) string {
	if width < 1 {
		width = 1
	}
	if len(s) > width {
		if width <= 3 {
			return s[:width]
		}
		return s[:width-3] + "..."
	}
	return s + strings.Repeat(" ", width-len(s))
}

// renderHelp joins keybinding hints.
func renderHelp(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(hints, " | ")
}
