package picker

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/adapters/driven/storage/memory"
	"github.com/curiolabs/curio/internal/adapters/driven/tabular"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/messages"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/core/services"
)

func newTestView(gw *memory.Gateway) *View {
	curation := services.NewCuration(gw, tabular.NewCSVCodec(), nil, services.CurationConfig{
		Directory:   "/tmp/curio-test",
		QuietPeriod: 20 * time.Millisecond,
	}, nil)
	return NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), curation, "/data")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPicker_Init_LoadsSources(t *testing.T) {
	gw := memory.NewGateway()
	gw.Seed("b.jsonl", "{}\n")
	gw.Seed("a.csv", "name\n")
	gw.Seed("a_annotated.csv", "name\n")
	v := newTestView(gw)

	cmd := v.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.SourcesLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, []string{"a.csv", "b.jsonl"}, loaded.Names)
}

func TestPicker_Navigation(t *testing.T) {
	v := newTestView(memory.NewGateway())
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v.Update(messages.SourcesLoaded{Names: []string{"a.csv", "b.jsonl", "c.jsonl"}})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.selected)

	// Clamped at the end.
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.selected)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, v.selected)
}

func TestPicker_EnterRequestsOpen(t *testing.T) {
	v := newTestView(memory.NewGateway())
	v.Update(messages.SourcesLoaded{Names: []string{"a.csv", "b.jsonl"}})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	req, ok := msg.(messages.OpenRequested)
	require.True(t, ok)
	assert.Equal(t, "b.jsonl", req.Name)
}

func TestPicker_EnterOnEmptyListIsNoop(t *testing.T) {
	v := newTestView(memory.NewGateway())
	v.Update(messages.SourcesLoaded{Names: nil})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestPicker_DirectoryChangedRelists(t *testing.T) {
	gw := memory.NewGateway()
	v := newTestView(gw)
	v.Update(messages.SourcesLoaded{Names: []string{"a.csv"}})

	gw.Seed("new.jsonl", "{}\n")
	_, cmd := v.Update(messages.DirectoryChanged{})
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.SourcesLoaded)
	require.True(t, ok)
	assert.Contains(t, loaded.Names, "new.jsonl")
}

func TestPicker_SelectionClampsWhenListShrinks(t *testing.T) {
	v := newTestView(memory.NewGateway())
	v.Update(messages.SourcesLoaded{Names: []string{"a.csv", "b.jsonl", "c.jsonl"}})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	v.Update(messages.SourcesLoaded{Names: []string{"a.csv"}})

	assert.Equal(t, 0, v.selected)
}

func TestPicker_RefreshKey(t *testing.T) {
	gw := memory.NewGateway()
	gw.Seed("a.jsonl", "{}\n")
	v := newTestView(gw)

	_, cmd := v.Update(keyRune('r'))

	require.NotNil(t, cmd)
	assert.True(t, v.loading)
}

func TestPicker_View_Empty(t *testing.T) {
	v := newTestView(memory.NewGateway())
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v.Update(messages.SourcesLoaded{Names: nil})

	assert.Contains(t, v.View(), "No .jsonl or .csv files")
}
