package services

import (
	"encoding/json"
	"strings"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/logger"
)

// Defaults for the record format. Overridable through configuration.
const (
	// DefaultAnnotationKey is the reserved record key carrying the
	// annotation sub-object on the wire.
	DefaultAnnotationKey = "_annotations"
)

// DefaultTelemetryFields are record keys emitted by the batch producer
// as run telemetry. They round-trip unchanged but never receive
// annotation entries.
func DefaultTelemetryFields() []string {
	return []string{
		"timestamp",
		"model",
		"response_id",
		"input_tokens",
		"output_tokens",
		"cached_tokens",
		"web_search_calls",
		"total_cost",
		"duration_seconds",
		"status",
		"error",
	}
}

// Codec implements the document model's load and serialize operations
// for line-delimited JSON artifacts.
type Codec struct {
	annotationKey string
	excluded      map[string]struct{}
}

// NewCodec creates a codec with the given reserved annotation key and
// telemetry exclusion set. Zero values fall back to the defaults.
func NewCodec(annotationKey string, telemetryFields []string) *Codec {
	if annotationKey == "" {
		annotationKey = DefaultAnnotationKey
	}
	if telemetryFields == nil {
		telemetryFields = DefaultTelemetryFields()
	}
	excluded := make(map[string]struct{}, len(telemetryFields))
	for _, f := range telemetryFields {
		excluded[f] = struct{}{}
	}
	return &Codec{annotationKey: annotationKey, excluded: excluded}
}

// AnnotationKey returns the reserved key.
func (c *Codec) AnnotationKey() string {
	return c.annotationKey
}

// Annotatable reports whether a field takes annotations. The reserved
// key and telemetry fields do not.
func (c *Codec) Annotatable(field string) bool {
	if field == c.annotationKey {
		return false
	}
	_, excluded := c.excluded[field]
	return !excluded
}

// Load splits raw text into non-empty lines and parses each one
// independently. A line that fails to parse is dropped and logged; it
// never blocks the rest of the load. Records carrying an embedded
// annotation sub-object seed the overlay for their index, and
// preAnnotated reports whether any did.
func (c *Codec) Load(raw string) (*domain.Document, domain.AnnotationOverlay, bool) {
	doc := &domain.Document{}
	overlay := domain.NewAnnotationOverlay()
	preAnnotated := false

	for lineNo, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec := domain.NewRecord()
		if err := json.Unmarshal([]byte(line), rec); err != nil {
			logger.Warn("dropping unparseable line %d: %v", lineNo+1, err)
			continue
		}

		index := doc.Len()
		doc.Records = append(doc.Records, rec)

		if raw, ok := rec.Get(c.annotationKey); ok {
			if c.seedOverlay(overlay, index, raw) {
				preAnnotated = true
			}
		}
	}

	return doc, overlay, preAnnotated
}

// seedOverlay copies an embedded annotation sub-object into the
// overlay. Malformed sub-objects are ignored; the record itself
// already loaded fine.
func (c *Codec) seedOverlay(overlay domain.AnnotationOverlay, index int, raw any) bool {
	sub, ok := raw.(map[string]any)
	if !ok {
		logger.Warn("record %d: annotation key is not an object, ignoring", index)
		return false
	}
	seeded := false
	for field, v := range sub {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		ann := domain.DefaultAnnotation()
		if s, ok := entry["correctness"].(string); ok && domain.Correctness(s).IsValid() {
			ann.Correctness = domain.Correctness(s)
		}
		if s, ok := entry["comment"].(string); ok {
			ann.Comment = s
		}
		overlay.Set(index, field, ann)
		seeded = true
	}
	return seeded
}

// InitializeDefaults gives every annotatable field of every record a
// default entry where the overlay has none. Run exactly once, when a
// session turns out to be new.
func (c *Codec) InitializeDefaults(doc *domain.Document, overlay domain.AnnotationOverlay) {
	for i, rec := range doc.Records {
		for _, field := range rec.Keys() {
			if !c.Annotatable(field) {
				continue
			}
			if fields := overlay.Fields(i); fields != nil {
				if _, ok := fields[field]; ok {
					continue
				}
			}
			overlay.Set(i, field, domain.DefaultAnnotation())
		}
	}
}

// Serialize emits every record in original order with its annotation
// sub-object attached under the reserved key, one JSON object per line,
// newline-joined with a trailing newline. Telemetry fields pass through
// inside the record body untouched; only their overlay is never
// consulted. The records themselves are left unmodified: the
// annotation key is attached to a per-line clone, so serialization can
// run on the autosave goroutine while the rendering layer reads the
// document.
func (c *Codec) Serialize(doc *domain.Document, overlay domain.AnnotationOverlay) (string, error) {
	var b strings.Builder
	for i, rec := range doc.Records {
		annotations := make(map[string]domain.FieldAnnotation)
		for field, ann := range overlay.Fields(i) {
			if c.Annotatable(field) {
				annotations[field] = ann
			}
		}
		out := rec.Clone()
		out.Set(c.annotationKey, annotations)

		line, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
