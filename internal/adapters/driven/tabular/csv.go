// Package tabular adapts delimited text to the core's {headers, rows}
// shape. The core never sees the wire format; this package owns it.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/ports/driven"
)

// Ensure CSVCodec implements the interface.
var _ driven.TableCodec = (*CSVCodec)(nil)

// CSVCodec converts between RFC 4180 delimited text and tables.
type CSVCodec struct{}

// NewCSVCodec creates a codec.
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Decode parses delimited text with a header row. Duplicate headers are
// rejected; short rows read as empty cells, long rows are truncated to
// the header width.
func (c *CSVCodec) Decode(text string) (*domain.Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // tolerate ragged rows, we reconcile below

	headers, err := r.Read()
	if err == io.EOF {
		return domain.NewTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header row: %v", domain.ErrInvalidInput, err)
	}

	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("%w: duplicate header %q", domain.ErrInvalidInput, h)
		}
		seen[h] = struct{}{}
	}

	table := domain.NewTable(headers, nil)
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", domain.ErrInvalidInput, err)
		}
		row := make(domain.Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Encode renders the table back to delimited text, headers first.
func (c *CSVCodec) Encode(table *domain.Table) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(table.Headers); err != nil {
		return "", fmt.Errorf("writing header row: %w", err)
	}
	fields := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, h := range table.Headers {
			fields[i] = row[h]
		}
		if err := w.Write(fields); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
