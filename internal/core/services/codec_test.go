package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiolabs/curio/internal/core/domain"
)

func TestCodec_Load(t *testing.T) {
	codec := NewCodec("", nil)

	t.Run("parses each non-empty line", func(t *testing.T) {
		raw := "{\"a\":1}\n\n{\"b\":2}\n   \n{\"c\":3}\n"

		doc, overlay, preAnnotated := codec.Load(raw)

		assert.Equal(t, 3, doc.Len())
		assert.Empty(t, overlay)
		assert.False(t, preAnnotated)
	})

	t.Run("a bad line drops without blocking the rest", func(t *testing.T) {
		raw := "{\"a\":1}\nnot json at all\n{\"c\":3}\n"

		doc, _, _ := codec.Load(raw)

		require.Equal(t, 2, doc.Len())
		_, ok := doc.Record(0).Get("a")
		assert.True(t, ok)
		_, ok = doc.Record(1).Get("c")
		assert.True(t, ok)
	})

	t.Run("embedded annotations seed the overlay", func(t *testing.T) {
		raw := `{"name":"ada","_annotations":{"name":{"correctness":"yes","comment":"checked"}}}` + "\n"

		_, overlay, preAnnotated := codec.Load(raw)

		assert.True(t, preAnnotated)
		ann := overlay.Get(0, "name")
		assert.Equal(t, domain.CorrectnessYes, ann.Correctness)
		assert.Equal(t, "checked", ann.Comment)
	})

	t.Run("invalid correctness falls back to unchecked", func(t *testing.T) {
		raw := `{"f":1,"_annotations":{"f":{"correctness":"maybe","comment":"x"}}}` + "\n"

		_, overlay, _ := codec.Load(raw)

		ann := overlay.Get(0, "f")
		assert.Equal(t, domain.CorrectnessUnchecked, ann.Correctness)
		assert.Equal(t, "x", ann.Comment)
	})
}

func TestCodec_Serialize(t *testing.T) {
	codec := NewCodec("", nil)

	t.Run("round trip preserves order, values, and count", func(t *testing.T) {
		raw := `{"zebra":"z","apple":1.5,"ok":true}` + "\n" +
			`{"apple":2,"zebra":"y","nested":{"k":[1,2]}}` + "\n"

		doc, overlay, _ := codec.Load(raw)
		out, err := codec.Serialize(doc, overlay)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)

		// Every original field survives with its value; only the
		// annotation key was added.
		var first map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, "z", first["zebra"])
		assert.Equal(t, 1.5, first["apple"])
		assert.Equal(t, true, first["ok"])
		assert.Contains(t, first, DefaultAnnotationKey)

		// Field order is intact: zebra before apple on line one.
		assert.Less(t, strings.Index(lines[0], `"zebra"`), strings.Index(lines[0], `"apple"`))
		assert.Less(t, strings.Index(lines[1], `"apple"`), strings.Index(lines[1], `"zebra"`))
	})

	t.Run("mutated annotations serialize back", func(t *testing.T) {
		doc, overlay, _ := codec.Load(`{"name":"ada"}` + "\n")
		overlay.SetCorrectness(0, "name", domain.CorrectnessNo)
		overlay.SetComment(0, "name", "wrong person")

		out, err := codec.Serialize(doc, overlay)
		require.NoError(t, err)

		reloaded, overlay2, preAnnotated := codec.Load(out)
		assert.True(t, preAnnotated)
		assert.Equal(t, 1, reloaded.Len())
		ann := overlay2.Get(0, "name")
		assert.Equal(t, domain.CorrectnessNo, ann.Correctness)
		assert.Equal(t, "wrong person", ann.Comment)
	})

	t.Run("telemetry fields round trip but stay unannotated", func(t *testing.T) {
		telemetry := NewCodec("", DefaultTelemetryFields())
		raw := `{"name":"ada","total_cost":0.004,"status":"success"}` + "\n"

		doc, overlay, _ := telemetry.Load(raw)
		telemetry.InitializeDefaults(doc, overlay)
		out, err := telemetry.Serialize(doc, overlay)
		require.NoError(t, err)

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
		assert.Equal(t, "success", rec["status"])
		assert.Equal(t, 0.004, rec["total_cost"])

		anns, ok := rec[DefaultAnnotationKey].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, anns, "name")
		assert.NotContains(t, anns, "total_cost")
		assert.NotContains(t, anns, "status")
	})

	t.Run("leaves the records untouched", func(t *testing.T) {
		doc, overlay, _ := codec.Load(`{"name":"ada"}` + "\n")
		overlay.SetCorrectness(0, "name", domain.CorrectnessYes)

		_, err := codec.Serialize(doc, overlay)
		require.NoError(t, err)

		rec := doc.Record(0)
		assert.Equal(t, []string{"name"}, rec.Keys())
		_, ok := rec.Get(DefaultAnnotationKey)
		assert.False(t, ok, "the annotation key belongs to the output line, not the record")
	})
}

func TestCodec_InitializeDefaults(t *testing.T) {
	codec := NewCodec("", nil)

	t.Run("every annotatable field gets the default", func(t *testing.T) {
		doc, overlay, _ := codec.Load(`{"a":1,"b":2}` + "\n" + `{"c":3}` + "\n")

		codec.InitializeDefaults(doc, overlay)

		assert.Len(t, overlay.Fields(0), 2)
		assert.Len(t, overlay.Fields(1), 1)
		assert.Equal(t, domain.CorrectnessUnchecked, overlay.Get(0, "a").Correctness)
	})

	t.Run("pre-seeded entries are not reinitialized", func(t *testing.T) {
		raw := `{"a":1,"_annotations":{"a":{"correctness":"yes","comment":""}}}` + "\n"
		doc, overlay, _ := codec.Load(raw)

		codec.InitializeDefaults(doc, overlay)

		assert.Equal(t, domain.CorrectnessYes, overlay.Get(0, "a").Correctness)
	})
}

func TestCodec_Annotatable(t *testing.T) {
	codec := NewCodec("", nil)

	assert.True(t, codec.Annotatable("name"))
	assert.True(t, codec.Annotatable("input_company"))
	assert.False(t, codec.Annotatable("total_cost"))
	assert.False(t, codec.Annotatable("timestamp"))
	assert.False(t, codec.Annotatable(DefaultAnnotationKey))
}
