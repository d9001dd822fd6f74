// Package records provides the per-field annotation view for record
// sessions.
package records

import (
	"encoding/json"
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

// View walks a document record by record and annotates fields.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	curation driving.CurationService

	session  *domain.Session
	record   int
	field    int
	comment  *input.FieldInput
	editing  bool
	width    int
	height   int
	err      error
	scroll   int
}

// NewView creates a new records view.
func NewView(s *styles.Styles, km *keymap.KeyMap, curation driving.CurationService) *View {
	return &View{
		styles:   s,
		keymap:   km,
		curation: curation,
		comment:  input.NewFieldInput(s, "Comment", "note what is wrong..."),
	}
}

// SetSession binds the view to a freshly opened session and resets the
// cursor to the first record.
func (v *View) SetSession(session *domain.Session) {
	v.session = session
	v.record = 0
	v.field = 0
	v.scroll = 0
	v.editing = false
	v.err = nil
	v.comment.Blur()
	v.comment.Reset()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.comment.SetWidth(msg.Width - 4)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleCommentKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses while navigating fields.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	fields := v.fields()

	switch msg.String() {
	case "up", "k":
		if v.field > 0 {
			v.field--
			v.adjustScroll()
		}
	case "down", "j":
		if v.field < len(fields)-1 {
			v.field++
			v.adjustScroll()
		}
	case "left", "h":
		if v.record > 0 {
			v.record--
			v.field = 0
			v.scroll = 0
		}
	case "right", "l":
		if doc := v.curation.Document(); doc != nil && v.record < doc.Len()-1 {
			v.record++
			v.field = 0
			v.scroll = 0
		}
	case "y":
		v.mark(domain.CorrectnessYes)
	case "n":
		v.mark(domain.CorrectnessNo)
	case "u":
		v.mark(domain.CorrectnessUnchecked)
	case "c":
		return v.openComment(fields)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPicker}
		}
	}

	return v, nil
}

// handleCommentKeyMsg handles key presses while the comment editor is
// open. Enter commits; Escape throws the draft away.
func (v *View) handleCommentKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		fields := v.fields()
		if v.field < len(fields) {
			if err := v.curation.SetComment(v.record, fields[v.field], v.comment.Value()); err != nil {
				v.err = err
			} else {
				v.err = nil
			}
		}
		v.editing = false
		v.comment.Blur()
		return v, nil
	case "esc":
		v.editing = false
		v.comment.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.comment, cmd = v.comment.Update(msg)
	return v, cmd
}

// openComment seeds the editor with the stored comment and focuses it.
func (v *View) openComment(fields []string) (*View, tea.Cmd) {
	if v.field >= len(fields) || !v.curation.Annotatable(fields[v.field]) {
		return v, nil
	}
	ann := v.curation.Annotations().Get(v.record, fields[v.field])
	v.comment.SetValue(ann.Comment)
	v.editing = true
	return v, v.comment.Focus()
}

// mark applies a verdict to the selected field.
func (v *View) mark(verdict domain.Correctness) {
	fields := v.fields()
	if v.field >= len(fields) || !v.curation.Annotatable(fields[v.field]) {
		return
	}
	if err := v.curation.SetCorrectness(v.record, fields[v.field], verdict); err != nil {
		v.err = err
		return
	}
	v.err = nil
}

// fields returns the displayable keys of the current record. The
// reserved annotation key never shows.
func (v *View) fields() []string {
	doc := v.curation.Document()
	if doc == nil {
		return nil
	}
	rec := doc.Record(v.record)
	if rec == nil {
		return nil
	}
	reserved := v.curation.AnnotationKey()
	keys := make([]string, 0, rec.Len())
	for _, k := range rec.Keys() {
		if k == reserved {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// adjustScroll keeps the selected field visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.field < v.scroll {
		v.scroll = v.field
	} else if v.field >= v.scroll+visible {
		v.scroll = v.field - visible + 1
	}
}

// visibleItemCount returns how many field lines fit on screen.
func (v *View) visibleItemCount() int {
	reserved := 9
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the records view.
func (v *View) View() string {
	var b strings.Builder

	doc := v.curation.Document()
	name := ""
	if v.session != nil {
		name = v.session.SourceName
	}
	total := 0
	if doc != nil {
		total = doc.Len()
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("%s - record %d/%d", name, v.record+1, total)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
	}

	if doc == nil || doc.Len() == 0 {
		b.WriteString(v.styles.Muted.Render("No records."))
		b.WriteString("\n")
		return b.String()
	}

	rec := doc.Record(v.record)
	fields := v.fields()
	overlay := v.curation.Annotations()

	visible := v.visibleItemCount()
	end := v.scroll + visible
	if end > len(fields) {
		end = len(fields)
	}
	for i := v.scroll; i < end; i++ {
		b.WriteString(v.renderField(rec, overlay, fields[i], i == v.field))
		b.WriteString("\n")
	}
	if end < len(fields) {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more fields", len(fields)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.comment.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("enter: save | esc: discard"))
	} else {
		b.WriteString(v.styles.Help.Render(renderHelp(v.keymap.RecordsHelp())))
	}

	return b.String()
}

// renderField formats one field line with its verdict marker.
func (v *View) renderField(rec *domain.Record, overlay domain.AnnotationOverlay, field string, selected bool) string {
	value := ""
	if raw, ok := rec.Get(field); ok {
		value = formatValue(raw)
	}
	value = truncate(value, v.width-len(field)-12)

	if !v.curation.Annotatable(field) {
		line := fmt.Sprintf("      %s: %s", field, value)
		return v.styles.Muted.Render(line)
	}

	ann := overlay.Get(v.record, field)
	line := fmt.Sprintf("  %s %s: %s", marker(ann.Correctness), field, value)
	if ann.Comment != "" {
		line += v.styles.Muted.Render("  # " + ann.Comment)
	}

	if selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.styles.Normal.Render("  " + line)
}

// marker maps a verdict onto a cell badge.
func marker(c domain.Correctness) string {
	switch c {
	case domain.CorrectnessYes:
		return "[✓]"
	case domain.CorrectnessNo:
		return "[✗]"
	default:
		return "[ ]"
	}
}

// formatValue renders a decoded JSON value for a single display line.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}

// truncate shortens a value to fit the line.
func truncate(s string, max int) string {
	if max < 8 {
		max = 8
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// renderHelp joins keybinding hints like "y: mark correct | c: comment".
func renderHelp(bindings []key.Binding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(hints, " | ")
}
