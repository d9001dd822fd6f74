package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one structured entry from a source artifact: an ordered
// mapping of field name to value. Values keep the loose typing of the
// input (string, number, bool, nested object/array, null); unknown keys
// are opaque pass-through data. Field order is preserved so that a
// load/serialize round trip reproduces the input line shape, but order
// carries no meaning beyond display.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Keys returns the field names in their original order.
// The returned slice must not be mutated.
func (r *Record) Keys() []string {
	return r.keys
}

// Get returns the value for a field and whether it exists.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores a value, appending the key to the order if it is new.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Delete removes a field and its position in the key order.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Clone returns a record with its own key order and value map. Values
// are shared with the original; loaded values are never mutated in
// place.
func (r *Record) Clone() *Record {
	clone := &Record{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]any, len(r.values)),
	}
	for k, v := range r.values {
		clone.values[k] = v
	}
	return clone
}

// UnmarshalJSON decodes a single JSON object, preserving key order.
// Nested values are decoded with encoding/json defaults; numbers stay
// json.Number so serialization does not reformat them. Nested objects
// become plain maps, so only the top-level field order survives a
// round trip; nested keys re-encode in sorted order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: record must be a JSON object", ErrInvalidInput)
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", ErrInvalidInput)
		}

		var value any
		if err := decodeValue(dec, &value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeValue reads one JSON value from the decoder into v.
func decodeValue(dec *json.Decoder, v *any) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	inner := json.NewDecoder(bytes.NewReader(raw))
	inner.UseNumber()
	return inner.Decode(v)
}

// MarshalJSON encodes the record as a JSON object with fields in their
// original order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", key, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document is an ordered sequence of records. A record's identity is its
// positional index, stable for the lifetime of a load.
type Document struct {
	Records []*Record
}

// Len returns the number of records.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Record returns the record at index, or nil if out of range.
func (d *Document) Record(index int) *Record {
	if d == nil || index < 0 || index >= len(d.Records) {
		return nil
	}
	return d.Records[index]
}
