// Package format projects raw Shortcut payloads onto small, fixed-shape views.
//
// Every view keeps all of its keys: optional fields absent from the source
// record are filled with "", an empty list, false, 0 or null. The only
// failure is a missing required field, reported as *MalformedResponseError.
// A required field that is present but null counts as present; string-typed
// required fields then render as "".
package format

import (
	"fmt"
)

// Record is one decoded JSON object as returned by the service.
type Record = map[string]any

// MalformedResponseError reports a payload that breaks the expected contract,
// usually a missing required field.
type MalformedResponseError struct {
	Entity string
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s response: missing required field %q", e.Entity, e.Field)
	}
	return fmt.Sprintf("malformed %s response: %s", e.Entity, e.Reason)
}

// fields reads a record and keeps the first error, so projections can be
// written as a flat list of field reads followed by one error check.
type fields struct {
	entity string
	rec    Record
	err    error
}

func newFields(entity string, v any) *fields {
	f := &fields{entity: entity}
	rec, ok := v.(map[string]any)
	if !ok {
		f.err = &MalformedResponseError{Entity: entity, Reason: fmt.Sprintf("expected object, got %T", v)}
		return f
	}
	f.rec = rec
	return f
}

func (f *fields) required(key string) any {
	if f.err != nil {
		return nil
	}
	v, ok := f.rec[key]
	if !ok {
		f.err = &MalformedResponseError{Entity: f.entity, Field: key}
		return nil
	}
	return v
}

func (f *fields) requiredString(key string) string {
	v := f.required(key)
	if v == nil {
		return ""
	}
	return toString(v)
}

func (f *fields) value(key string) any {
	if f.err != nil {
		return nil
	}
	return f.rec[key]
}

func (f *fields) str(key, def string) string {
	v := f.value(key)
	if v == nil {
		return def
	}
	return toString(v)
}

func (f *fields) boolean(key string) bool {
	b, _ := f.value(key).(bool)
	return b
}

func (f *fields) list(key string) []any {
	l, _ := f.value(key).([]any)
	if l == nil {
		return []any{}
	}
	return l
}

func (f *fields) object(key string) map[string]any {
	m, _ := f.value(key).(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

// fail records err unless an earlier error is already held.
func (f *fields) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// each normalizes a JSON array with fn. The result is never nil.
func each[T any](entity string, v any, fn func(any) (T, error)) ([]T, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &MalformedResponseError{Entity: entity, Reason: fmt.Sprintf("expected list, got %T", v)}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		view, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}
