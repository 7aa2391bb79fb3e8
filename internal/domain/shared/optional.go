package shared

import (
	"bytes"
	"encoding/json"
)

// Optional carries a value together with whether the caller supplied it.
// It lets PATCH bodies tell an omitted field apart from one explicitly set
// to its zero value. A JSON null counts as supplied and also sets Null, so
// fields that cannot be cleared can reject it.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a supplied Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON is only invoked for keys present in the document
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Null = false
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value, or null when unset
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Or returns the value when set, otherwise fallback
func (o Optional[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}
