// Package jsondoc provides a generic JSON document model with key-path
// navigation helpers. Install and uninstall both route their key-path
// access through this package so the traversal rules live in one place.
//
// Documents are plain map[string]any values. encoding/json serializes map
// keys in sorted order, so Marshal output is deterministic.
package jsondoc

import (
	"encoding/json"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// Doc is a generic JSON object document.
type Doc map[string]any

// Parse decodes data into a Doc. Empty or whitespace-only input yields an
// empty document. A top-level value that is not an object returns
// ErrInvalidConfig.
func Parse(data []byte) (Doc, error) {
	if isBlank(data) {
		return Doc{}, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "top-level value is not an object")
	}
	return Doc(obj), nil
}

// ParseLenient decodes data into a Doc, treating unreadable or invalid
// input as an empty document. Used on write paths where pre-existing
// corruption elsewhere in the file must not fail the operation.
func ParseLenient(data []byte) Doc {
	doc, err := Parse(data)
	if err != nil {
		return Doc{}
	}
	return doc
}

// Get returns the value at the key path, walking nested objects.
// Missing keys or non-object intermediates report ok=false.
func (d Doc) Get(path ...string) (any, bool) {
	cur := map[string]any(d)
	for i, key := range path {
		val, ok := cur[key]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Object returns the object at the key path. Missing keys or values of
// other types report ok=false.
func (d Doc) Object(path ...string) (map[string]any, bool) {
	val, ok := d.Get(path...)
	if !ok {
		return nil, false
	}
	obj, ok := val.(map[string]any)
	return obj, ok
}

// Set stores value at the key path, creating intermediate objects as
// needed. An intermediate that exists with a non-object value is replaced
// by a fresh object; callers relying on that value should Get it first.
func (d Doc) Set(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := map[string]any(d)
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Delete removes the value at the key path. It reports whether a value was
// present. Deleting through a missing or non-object intermediate is a no-op.
func (d Doc) Delete(path ...string) bool {
	if len(path) == 0 {
		return false
	}
	cur := map[string]any(d)
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}
	last := path[len(path)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// Marshal serializes the document with 2-space indentation, sorted keys,
// and a trailing newline.
func (d Doc) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(d), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling document")
	}
	return append(data, '\n'), nil
}

func isBlank(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
