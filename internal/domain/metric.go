package domain

import "encoding/json"

// naSentinel is what an unknown metric looks like on the wire. The JSON
// format keeps every key present: a field is either a well-typed value
// or the literal string "n/a", never null and never absent.
const naSentinel = "n/a"

// Metric is a metric value that may be unknown. The zero value is
// unknown, so a half-filled record degrades safely.
type Metric[T any] struct {
	value T
	known bool
}

// Known wraps a value in a known Metric.
func Known[T any](v T) Metric[T] {
	return Metric[T]{value: v, known: true}
}

// Unknown returns the unknown Metric for T.
func Unknown[T any]() Metric[T] {
	return Metric[T]{}
}

// Value returns the underlying value and whether it is known.
func (m Metric[T]) Value() (T, bool) {
	return m.value, m.known
}

// IsKnown reports whether the metric holds a value.
func (m Metric[T]) IsKnown() bool { return m.known }

// MarshalJSON serializes a known metric as its value and an unknown one
// as the string "n/a".
func (m Metric[T]) MarshalJSON() ([]byte, error) {
	if !m.known {
		return json.Marshal(naSentinel)
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON accepts either the "n/a" sentinel or a value of T.
func (m *Metric[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == naSentinel {
		*m = Metric[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Metric[T]{value: v, known: true}
	return nil
}
