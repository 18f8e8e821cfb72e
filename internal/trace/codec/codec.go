// Package codec is the serialization boundary between the engine and its
// payloads. The engine never inspects payload structure; it stores and
// retrieves opaque strings through a Codec, so the technology can be swapped
// without touching the emitter or the query layer.
package codec

import (
	"encoding/json"
	"reflect"

	dErrors "traceability/pkg/domain-errors"
)

// Codec round-trips arbitrary structured values to an opaque durable string.
type Codec interface {
	Serialize(v any) (string, error)
	Deserialize(text string, out any) error
}

// JSON is the default codec. Any value the domain layer passes as a payload
// (structs, id collections, field bags) must survive the round-trip.
type JSON struct{}

func (JSON) Serialize(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		// An unreadable payload is worse than a loud failure; never persist it.
		return "", dErrors.Wrap(err, dErrors.CodeSerialization, "serialize payload")
	}
	return string(b), nil
}

func (JSON) Deserialize(text string, out any) error {
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeSerialization, "deserialize payload")
	}
	return nil
}

// Equal compares two values structurally, field by field rather than by
// reference, by normalizing both sides through the codec. This makes typed
// values and their decoded generic forms (maps, float64 numbers) compare as
// equal when they describe the same data.
func Equal(c Codec, a, b any) (bool, error) {
	na, err := normalize(c, a)
	if err != nil {
		return false, err
	}
	nb, err := normalize(c, b)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(na, nb), nil
}

func normalize(c Codec, v any) (any, error) {
	text, err := c.Serialize(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := c.Deserialize(text, &out); err != nil {
		return nil, err
	}
	return out, nil
}
