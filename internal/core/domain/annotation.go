package domain

// Correctness is the reviewer's verdict on a single field value.
type Correctness string

// Correctness values.
const (
	// CorrectnessUnchecked means the field has not been reviewed yet.
	CorrectnessUnchecked Correctness = "unchecked"

	// CorrectnessYes means the field value was confirmed correct.
	CorrectnessYes Correctness = "yes"

	// CorrectnessNo means the field value was marked incorrect.
	CorrectnessNo Correctness = "no"
)

// IsValid returns true if the correctness value is recognised.
func (c Correctness) IsValid() bool {
	switch c {
	case CorrectnessUnchecked, CorrectnessYes, CorrectnessNo:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Correctness) String() string {
	return string(c)
}

// FieldAnnotation is the per-field review metadata.
// The zero-equivalent annotation is {unchecked, ""}.
type FieldAnnotation struct {
	Correctness Correctness `json:"correctness"`
	Comment     string      `json:"comment"`
}

// DefaultAnnotation returns the annotation implied by absence.
func DefaultAnnotation() FieldAnnotation {
	return FieldAnnotation{Correctness: CorrectnessUnchecked}
}

// AnnotationOverlay is the sparse per-record, per-field annotation layer
// over a document. Absence of an entry is equivalent to the default
// annotation.
type AnnotationOverlay map[int]map[string]FieldAnnotation

// NewAnnotationOverlay returns an empty overlay.
func NewAnnotationOverlay() AnnotationOverlay {
	return make(AnnotationOverlay)
}

// Get returns the annotation for (recordIndex, field), falling back to
// the default when no entry exists.
func (o AnnotationOverlay) Get(recordIndex int, field string) FieldAnnotation {
	if fields, ok := o[recordIndex]; ok {
		if ann, ok := fields[field]; ok {
			return ann
		}
	}
	return DefaultAnnotation()
}

// Set stores an annotation, creating the record's sub-map if absent.
// The result is always a defined entry.
func (o AnnotationOverlay) Set(recordIndex int, field string, ann FieldAnnotation) {
	fields, ok := o[recordIndex]
	if !ok {
		fields = make(map[string]FieldAnnotation)
		o[recordIndex] = fields
	}
	fields[field] = ann
}

// SetCorrectness updates only the correctness of an entry, preserving
// any existing comment.
func (o AnnotationOverlay) SetCorrectness(recordIndex int, field string, c Correctness) {
	ann := o.Get(recordIndex, field)
	ann.Correctness = c
	o.Set(recordIndex, field, ann)
}

// SetComment updates only the comment of an entry, preserving any
// existing correctness.
func (o AnnotationOverlay) SetComment(recordIndex int, field, comment string) {
	ann := o.Get(recordIndex, field)
	ann.Comment = comment
	o.Set(recordIndex, field, ann)
}

// Fields returns the annotation sub-map for a record, or nil.
func (o AnnotationOverlay) Fields(recordIndex int) map[string]FieldAnnotation {
	return o[recordIndex]
}
