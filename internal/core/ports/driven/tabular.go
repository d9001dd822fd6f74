package driven

import "github.com/curiolabs/curio/internal/core/domain"

// TableCodec converts between delimited text and the {headers, rows}
// shape the core consumes. Parsing itself is an external collaborator;
// the core never sees the wire format.
type TableCodec interface {
	// Decode parses delimited text with a header row into a table.
	// Duplicate header names are rejected with domain.ErrInvalidInput.
	Decode(text string) (*domain.Table, error)

	// Encode renders the table back to delimited text, headers first,
	// rows in order.
	Encode(table *domain.Table) (string, error)
}
