// Package payload defines the tagged envelope that event data travels in.
//
// Rather than an untyped bag, every payload is one of three closed shapes:
// a full entity snapshot, a before/after change pair, or a small map of
// named facts. The codec and structural comparison therefore have a closed,
// testable contract.
package payload

// Kind discriminates the envelope shapes.
type Kind string

const (
	// KindSnapshot carries a full entity state as recorded at emit time.
	KindSnapshot Kind = "snapshot"
	// KindChange carries a before/after pair for one mutation.
	KindChange Kind = "change"
	// KindFields carries a small bag of named facts, e.g. {"entity_id": 123}.
	KindFields Kind = "fields"
)

// Envelope is the serialized unit stored as an event's payload. Exactly the
// fields matching Kind are populated; the rest stay zero and are omitted
// from the wire form.
type Envelope struct {
	Kind   Kind           `json:"kind"`
	Entity any            `json:"entity,omitempty"`
	Before any            `json:"before,omitempty"`
	After  any            `json:"after,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Snapshot wraps a full entity state.
func Snapshot(entity any) Envelope {
	return Envelope{Kind: KindSnapshot, Entity: entity}
}

// Change wraps a before/after pair.
func Change(before, after any) Envelope {
	return Envelope{Kind: KindChange, Before: before, After: after}
}

// Fields wraps a bag of named facts.
func Fields(fields map[string]any) Envelope {
	return Envelope{Kind: KindFields, Fields: fields}
}

// IsZero reports whether the envelope was never populated. A zero envelope
// is rejected by the emitter: an event without data is a caller bug.
func (e Envelope) IsZero() bool {
	return e.Kind == "" && e.Entity == nil && e.Before == nil && e.After == nil && e.Fields == nil
}
