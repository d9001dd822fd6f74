// Package domain defines the core business entities for curio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record / Document: an ordered record set loaded from an artifact
//   - FieldAnnotation / AnnotationOverlay: the sparse review layer
//   - Table / Row: the tabular variant of a record set
//   - GridSession: the selection/edit/resize state machine over a table
//   - Session: one curation session bound to a save target
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
