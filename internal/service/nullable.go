package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Nullable is a patch field that tells "absent" apart from an explicit
// null. Set is false when the key was missing; Null is true for null.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Null, n.Value = true, zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

// Ptr returns nil for an absent or null field, else a copy of the value.
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// Some builds a Nullable holding v, mostly for tests and programmatic
// callers.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Null builds an explicitly nulled field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

// dateTimeLayouts are tried in order. Browsers' datetime-local inputs send
// the second and third forms.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateTime accepts RFC 3339 as well as the zone-less forms produced by
// HTML date inputs, which are read as UTC.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("due_date must be a string: %w", err)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("due_date %q is not a recognised date-time", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}
