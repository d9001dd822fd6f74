package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/adapters/driving/tui/keymap"
	"github.com/curiolabs/curio/internal/adapters/driving/tui/styles"
	"github.com/curiolabs/curio/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Contains(t, bar.View(), "no file open")
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_SetSession(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetSession(&domain.Session{SourceName: "facts.jsonl", RecordCount: 3})

	view := bar.View()
	assert.Contains(t, view, "facts.jsonl")
	assert.Contains(t, view, "3 records")
}

func TestStatusBar_SaveStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.SaveStatus
		want   string
	}{
		{"idle shows saved", domain.SaveIdle, "saved"},
		{"pending shows pending", domain.SavePending, "pending"},
		{"writing shows saving", domain.SaveWriting, "saving"},
		{"error keeps changes in memory", domain.SaveError, "kept in memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)

			bar.SetSaveStatus(tt.status)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_Message(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetSession(&domain.Session{SourceName: "facts.jsonl"})

	bar.SetMessage("file not found")

	view := bar.View()
	assert.Contains(t, view, "file not found")
	assert.NotContains(t, view, "facts.jsonl")
}
