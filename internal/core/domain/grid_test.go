package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSession_Activate(t *testing.T) {
	t.Run("selects a cell in navigate mode", func(t *testing.T) {
		g := NewGridSession(testTable(3))

		g.Activate(1, "city")

		sel := g.Selection()
		require.NotNil(t, sel)
		assert.Equal(t, 1, sel.Row)
		assert.Equal(t, "city", sel.Column)
		assert.Equal(t, ModeNavigate, sel.Mode)
	})

	t.Run("activation with no table is a no-op", func(t *testing.T) {
		g := NewGridSession(nil)

		g.Activate(0, "name")

		assert.Nil(t, g.Selection())
	})

	t.Run("out of bounds activation is ignored", func(t *testing.T) {
		g := NewGridSession(testTable(2))

		g.Activate(5, "name")
		assert.Nil(t, g.Selection())

		g.Activate(0, "ghost")
		assert.Nil(t, g.Selection())
	})
}

func TestGridSession_Move(t *testing.T) {
	t.Run("clamps at the last row", func(t *testing.T) {
		g := NewGridSession(testTable(3))
		g.Activate(2, "name")

		g.Move(MoveDown)

		assert.Equal(t, 2, g.Selection().Row)
	})

	t.Run("clamps at column zero", func(t *testing.T) {
		g := NewGridSession(testTable(3))
		g.Activate(0, "name")

		g.Move(MoveLeft)

		assert.Equal(t, "name", g.Selection().Column)
	})

	t.Run("moves over the live header sequence", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		g.Activate(0, "name")

		require.NoError(t, g.InsertColumn("id", 1))
		g.Move(MoveRight)

		assert.Equal(t, "id", g.Selection().Column)
	})

	t.Run("ignored while editing", func(t *testing.T) {
		g := NewGridSession(testTable(3))
		g.Activate(1, "city")
		_, ok := g.ActivateEdit()
		require.True(t, ok)

		g.Move(MoveDown)

		assert.Equal(t, 1, g.Selection().Row)
		assert.Equal(t, ModeEditing, g.Selection().Mode)
	})
}

func TestGridSession_EditLifecycle(t *testing.T) {
	t.Run("activate edit returns pre-edit text", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		require.NoError(t, g.Table().SetCell(0, "name", "ada"))
		g.Activate(0, "name")

		initial, ok := g.ActivateEdit()

		require.True(t, ok)
		assert.Equal(t, "ada", initial)
		assert.Equal(t, ModeEditing, g.Selection().Mode)
	})

	t.Run("cancel keeps the pre-edit value", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		require.NoError(t, g.Table().SetCell(0, "name", "before"))
		g.Activate(0, "name")
		_, ok := g.ActivateEdit()
		require.True(t, ok)

		g.CancelEdit()

		got, err := g.Table().Cell(0, "name")
		require.NoError(t, err)
		assert.Equal(t, "before", got)
		assert.Equal(t, ModeNavigate, g.Selection().Mode)
	})

	t.Run("commit writes draft and advances one row", func(t *testing.T) {
		g := NewGridSession(testTable(3))
		g.Activate(0, "name")
		_, ok := g.ActivateEdit()
		require.True(t, ok)

		committed := g.CommitEdit("X", MoveDown)

		require.True(t, committed)
		got, err := g.Table().Cell(0, "name")
		require.NoError(t, err)
		assert.Equal(t, "X", got)
		assert.Equal(t, 1, g.Selection().Row)
		assert.Equal(t, ModeNavigate, g.Selection().Mode)
	})

	t.Run("commit on the last row clamps", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		g.Activate(1, "name")
		_, ok := g.ActivateEdit()
		require.True(t, ok)

		g.CommitEdit("X", MoveDown)

		assert.Equal(t, 1, g.Selection().Row)
	})

	t.Run("commit without editing is refused", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		g.Activate(0, "name")

		assert.False(t, g.CommitEdit("X", MoveDown))
	})
}

func TestGridSession_Resize(t *testing.T) {
	t.Run("width clamps at the minimum", func(t *testing.T) {
		g := NewGridSession(testTable(2))

		g.StartColumnResize("name", 200)
		g.UpdateResize(40) // delta -160 from default width

		assert.Equal(t, MinColumnWidth, g.ColumnWidth("name"))
	})

	t.Run("width follows the pointer delta", func(t *testing.T) {
		g := NewGridSession(testTable(2))

		g.StartColumnResize("name", 100)
		g.UpdateResize(130)

		assert.Equal(t, MinColumnWidth+30, g.ColumnWidth("name"))
		assert.True(t, g.Resizing())
	})

	t.Run("row height clamps at the minimum", func(t *testing.T) {
		g := NewGridSession(testTable(2))

		g.StartRowResize(0, 500)
		g.UpdateResize(0)

		assert.Equal(t, MinRowHeight, g.RowHeight(0))
	})

	t.Run("end releases the gesture", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		g.StartColumnResize("name", 0)

		g.EndResize()
		g.UpdateResize(999)

		assert.False(t, g.Resizing())
		assert.Equal(t, MinColumnWidth, g.ColumnWidth("name"))
	})

	t.Run("gesture on unknown column is ignored", func(t *testing.T) {
		g := NewGridSession(testTable(2))

		g.StartColumnResize("ghost", 0)

		assert.False(t, g.Resizing())
	})
}

func TestGridSession_Reset(t *testing.T) {
	t.Run("collapses to no-selection", func(t *testing.T) {
		g := NewGridSession(testTable(3))
		g.Activate(1, "city")
		g.StartColumnResize("city", 0)
		g.UpdateResize(100)

		g.Reset(testTable(1))

		assert.Nil(t, g.Selection())
		assert.False(t, g.Resizing())
		assert.Equal(t, MinColumnWidth, g.ColumnWidth("city"))
	})
}

func TestGridSession_DeleteColumn(t *testing.T) {
	t.Run("selection on the deleted column collapses", func(t *testing.T) {
		g := NewGridSession(testTable(2))
		g.Activate(0, "city")

		require.NoError(t, g.DeleteColumn("city"))

		assert.Nil(t, g.Selection())
		assert.Equal(t, -1, g.Table().ColumnIndex("city"))
	})

	t.Run("no table loaded is rejected", func(t *testing.T) {
		g := NewGridSession(nil)

		assert.ErrorIs(t, g.DeleteColumn("x"), ErrNoDocument)
		assert.ErrorIs(t, g.InsertColumn("x", 0), ErrNoDocument)
	})
}

func TestAnnotationOverlay(t *testing.T) {
	t.Run("absence reads as the default", func(t *testing.T) {
		o := NewAnnotationOverlay()

		ann := o.Get(3, "field")

		assert.Equal(t, CorrectnessUnchecked, ann.Correctness)
		assert.Equal(t, "", ann.Comment)
	})

	t.Run("set correctness preserves comment", func(t *testing.T) {
		o := NewAnnotationOverlay()
		o.SetComment(0, "f", "looks odd")

		o.SetCorrectness(0, "f", CorrectnessNo)

		ann := o.Get(0, "f")
		assert.Equal(t, CorrectnessNo, ann.Correctness)
		assert.Equal(t, "looks odd", ann.Comment)
	})

	t.Run("set comment preserves correctness", func(t *testing.T) {
		o := NewAnnotationOverlay()
		o.SetCorrectness(1, "f", CorrectnessYes)

		o.SetComment(1, "f", "confirmed")

		ann := o.Get(1, "f")
		assert.Equal(t, CorrectnessYes, ann.Correctness)
		assert.Equal(t, "confirmed", ann.Comment)
	})
}
