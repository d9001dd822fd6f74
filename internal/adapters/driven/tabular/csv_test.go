package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/core/domain"
)

func TestCSVCodec_Decode(t *testing.T) {
	codec := NewCSVCodec()

	t.Run("header row plus data rows", func(t *testing.T) {
		table, err := codec.Decode("name,city\nada,london\ngrace,dc\n")

		require.NoError(t, err)
		assert.Equal(t, []string{"name", "city"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "ada", table.Rows[0]["name"])
		assert.Equal(t, "dc", table.Rows[1]["city"])
	})

	t.Run("short rows read as empty cells", func(t *testing.T) {
		table, err := codec.Decode("a,b,c\n1\n")

		require.NoError(t, err)
		assert.Equal(t, "1", table.Rows[0]["a"])
		assert.Equal(t, "", table.Rows[0]["b"])
		assert.Equal(t, "", table.Rows[0]["c"])
	})

	t.Run("duplicate headers are rejected", func(t *testing.T) {
		_, err := codec.Decode("a,b,a\n1,2,3\n")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty input yields an empty table", func(t *testing.T) {
		table, err := codec.Decode("")

		require.NoError(t, err)
		assert.Equal(t, 0, table.ColumnCount())
		assert.Equal(t, 0, table.RowCount())
	})

	t.Run("quoted cells keep embedded delimiters", func(t *testing.T) {
		table, err := codec.Decode("name,notes\nada,\"math, mostly\"\n")

		require.NoError(t, err)
		assert.Equal(t, "math, mostly", table.Rows[0]["notes"])
	})
}

func TestCSVCodec_Encode(t *testing.T) {
	codec := NewCSVCodec()

	t.Run("round trips through decode", func(t *testing.T) {
		in := "name,city\nada,\"london, uk\"\n"

		table, err := codec.Decode(in)
		require.NoError(t, err)
		out, err := codec.Encode(table)
		require.NoError(t, err)

		again, err := codec.Decode(out)
		require.NoError(t, err)
		assert.Equal(t, table.Headers, again.Headers)
		assert.Equal(t, table.Rows, again.Rows)
	})

	t.Run("inserted columns appear in the output", func(t *testing.T) {
		table, err := codec.Decode("a\n1\n")
		require.NoError(t, err)
		require.NoError(t, table.InsertColumn("b", 1))

		out, err := codec.Encode(table)
		require.NoError(t, err)

		assert.Equal(t, "a,b\n1,\n", out)
	})
}
