package domain

// SelectionMode distinguishes navigating over cells from editing one.
type SelectionMode int

const (
	// ModeNavigate means a cell is selected but not being edited.
	ModeNavigate SelectionMode = iota

	// ModeEditing means the selected cell has an open editor.
	ModeEditing
)

// Selection identifies the active cell and its mode. At most one cell is
// selected at a time; a session with no selection is valid.
type Selection struct {
	Row    int
	Column string
	Mode   SelectionMode
}

// MoveDirection is a single-step navigation request.
type MoveDirection int

// Navigation directions.
const (
	MoveUp MoveDirection = iota
	MoveDown
	MoveLeft
	MoveRight
)

// ResizeAxis says whether a resize gesture targets a column or a row.
type ResizeAxis int

const (
	// ResizeColumn adjusts a column width.
	ResizeColumn ResizeAxis = iota
	// ResizeRow adjusts a row height.
	ResizeRow
)

// Resize sizing floors.
const (
	MinColumnWidth = 50
	MinRowHeight   = 30
)

// ResizeGesture tracks one in-flight pointer resize. It exists only
// between pointer-down on a resize affordance and the matching
// pointer-up, and is never persisted.
type ResizeGesture struct {
	Axis       ResizeAxis
	Column     string
	RowIndex   int
	Origin     int
	OriginSize int
}

// GridSession is the selection/edit/resize state machine over a table.
// It never touches storage; committed cell values propagate to the
// caller through CommitEdit's return.
type GridSession struct {
	table *Table

	selection *Selection
	resize    *ResizeGesture

	columnWidths map[string]int
	rowHeights   map[int]int
}

// NewGridSession creates a session with no selection over the table.
// A nil table is valid; every event is then a no-op.
func NewGridSession(table *Table) *GridSession {
	return &GridSession{
		table:        table,
		columnWidths: make(map[string]int),
		rowHeights:   make(map[int]int),
	}
}

// Table returns the underlying table.
func (g *GridSession) Table() *Table {
	return g.table
}

// Reset swaps in a new table and collapses all state back to
// no-selection. Called on every full grid reload.
func (g *GridSession) Reset(table *Table) {
	g.table = table
	g.selection = nil
	g.resize = nil
	g.columnWidths = make(map[string]int)
	g.rowHeights = make(map[int]int)
}

// Selection returns the active selection, or nil when none.
func (g *GridSession) Selection() *Selection {
	return g.selection
}

// Activate selects a cell in navigate mode (pointer click). Activations
// outside the grid, or with no table loaded, are ignored.
func (g *GridSession) Activate(row int, column string) {
	if g.table == nil {
		return
	}
	if row < 0 || row >= g.table.RowCount() || g.table.ColumnIndex(column) < 0 {
		return
	}
	g.selection = &Selection{Row: row, Column: column, Mode: ModeNavigate}
}

// ActivateEdit transitions the current navigate selection into editing
// (double-activation or Enter). Returns the pre-edit cell text so the
// caller can seed its editor; ok is false when there is nothing to edit.
func (g *GridSession) ActivateEdit() (initial string, ok bool) {
	if g.table == nil || g.selection == nil || g.selection.Mode != ModeNavigate {
		return "", false
	}
	text, err := g.table.Cell(g.selection.Row, g.selection.Column)
	if err != nil {
		return "", false
	}
	g.selection.Mode = ModeEditing
	return text, true
}

// CancelEdit leaves editing without committing the draft. The cell
// keeps its pre-edit value since no draft was ever written to the row.
func (g *GridSession) CancelEdit() {
	if g.selection == nil || g.selection.Mode != ModeEditing {
		return
	}
	g.selection.Mode = ModeNavigate
}

// CommitEdit writes the draft verbatim into the selected cell, returns
// to navigate mode, and advances the selection one row in the given
// direction (clamped). Only MoveUp and MoveDown advance; any other
// direction keeps the row. Returns true if a cell was committed.
func (g *GridSession) CommitEdit(text string, advance MoveDirection) bool {
	if g.table == nil || g.selection == nil || g.selection.Mode != ModeEditing {
		return false
	}
	if err := g.table.SetCell(g.selection.Row, g.selection.Column, text); err != nil {
		return false
	}
	g.selection.Mode = ModeNavigate
	switch advance {
	case MoveUp:
		g.selection.Row = clamp(g.selection.Row-1, 0, g.table.RowCount()-1)
	case MoveDown:
		g.selection.Row = clamp(g.selection.Row+1, 0, g.table.RowCount()-1)
	}
	return true
}

// Move shifts a navigate-mode selection one step, clamped to the grid
// bounds on both axes. Column movement follows the live header
// sequence, so header inserts and deletes immediately affect order.
func (g *GridSession) Move(dir MoveDirection) {
	if g.table == nil || g.selection == nil || g.selection.Mode != ModeNavigate {
		return
	}
	switch dir {
	case MoveUp:
		g.selection.Row = clamp(g.selection.Row-1, 0, g.table.RowCount()-1)
	case MoveDown:
		g.selection.Row = clamp(g.selection.Row+1, 0, g.table.RowCount()-1)
	case MoveLeft, MoveRight:
		idx := g.table.ColumnIndex(g.selection.Column)
		if idx < 0 {
			// Column was deleted out from under the selection.
			idx = 0
		}
		if dir == MoveLeft {
			idx = clamp(idx-1, 0, g.table.ColumnCount()-1)
		} else {
			idx = clamp(idx+1, 0, g.table.ColumnCount()-1)
		}
		if idx < g.table.ColumnCount() {
			g.selection.Column = g.table.Headers[idx]
		}
	}
}

// ColumnWidth returns the rendered width for a column.
func (g *GridSession) ColumnWidth(column string) int {
	if w, ok := g.columnWidths[column]; ok {
		return w
	}
	return MinColumnWidth
}

// RowHeight returns the rendered height for a row.
func (g *GridSession) RowHeight(row int) int {
	if h, ok := g.rowHeights[row]; ok {
		return h
	}
	return MinRowHeight
}

// StartColumnResize begins a pointer resize gesture on a column.
func (g *GridSession) StartColumnResize(column string, origin int) {
	if g.table == nil || g.table.ColumnIndex(column) < 0 {
		return
	}
	g.resize = &ResizeGesture{
		Axis:       ResizeColumn,
		Column:     column,
		Origin:     origin,
		OriginSize: g.ColumnWidth(column),
	}
}

// StartRowResize begins a pointer resize gesture on a row.
func (g *GridSession) StartRowResize(row, origin int) {
	if g.table == nil || row < 0 || row >= g.table.RowCount() {
		return
	}
	g.resize = &ResizeGesture{
		Axis:       ResizeRow,
		RowIndex:   row,
		Origin:     origin,
		OriginSize: g.RowHeight(row),
	}
}

// UpdateResize applies a pointer-move to the in-flight gesture. The new
// size is originSize plus the pointer delta, floored at the axis
// minimum. No-op when no gesture is active.
func (g *GridSession) UpdateResize(coordinate int) {
	if g.resize == nil {
		return
	}
	size := g.resize.OriginSize + (coordinate - g.resize.Origin)
	switch g.resize.Axis {
	case ResizeColumn:
		if size < MinColumnWidth {
			size = MinColumnWidth
		}
		g.columnWidths[g.resize.Column] = size
	case ResizeRow:
		if size < MinRowHeight {
			size = MinRowHeight
		}
		g.rowHeights[g.resize.RowIndex] = size
	}
}

// EndResize finishes the gesture. The caller releases any global
// pointer listeners it acquired for the drag.
func (g *GridSession) EndResize() {
	g.resize = nil
}

// Resizing reports whether a resize gesture is in flight.
func (g *GridSession) Resizing() bool {
	return g.resize != nil
}

// InsertColumn inserts relative to the current table, preserving the
// row invariant, and keeps the selection if its column survives.
func (g *GridSession) InsertColumn(name string, index int) error {
	if g.table == nil {
		return ErrNoDocument
	}
	return g.table.InsertColumn(name, index)
}

// DeleteColumn removes a column. A selection on the deleted column
// collapses back to no-selection.
func (g *GridSession) DeleteColumn(name string) error {
	if g.table == nil {
		return ErrNoDocument
	}
	if err := g.table.DeleteColumn(name); err != nil {
		return err
	}
	delete(g.columnWidths, name)
	if g.selection != nil && g.selection.Column == name {
		g.selection = nil
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
