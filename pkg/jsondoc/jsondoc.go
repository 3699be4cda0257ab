// Package jsondoc keeps JSON objects in document order so files owned
// partly by the user can be rewritten without reshuffling their keys.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a JSON object that remembers key order. Values are kept as raw
// JSON so anything this package does not understand round-trips untouched.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewObject returns an empty Object
func NewObject() *Object {
	return &Object{values: make(map[string]json.RawMessage)}
}

// Parse decodes data into an Object. data must hold a single JSON object.
func Parse(data []byte) (*Object, error) {
	obj := NewObject()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Len returns the number of keys
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in document order
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Get returns the raw value stored under key
func (o *Object) Get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// GetObject decodes the value under key as an ordered Object
func (o *Object) GetObject(key string) (*Object, bool, error) {
	raw, ok := o.values[key]
	if !ok {
		return nil, false, nil
	}
	child, err := Parse(raw)
	if err != nil {
		return nil, true, fmt.Errorf("%q is not an object: %w", key, err)
	}
	return child, true, nil
}

// Set stores value under key. New keys are appended, existing keys keep
// their position.
func (o *Object) Set(key string, value json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// SetObject marshals child and stores it under key
func (o *Object) SetObject(key string, child *Object) error {
	raw, err := child.MarshalJSON()
	if err != nil {
		return err
	}
	o.Set(key, raw)
	return nil
}

// Delete removes key. Missing keys are ignored.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// UnmarshalJSON implements json.Unmarshaler. A repeated key keeps its first
// position and its last value.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		o.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		value := o.values[key]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal is json.Marshal without HTML escaping, so shell commands such as
// "a && b" stay readable in files users edit by hand
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Format renders v with two-space indentation and a trailing newline
func Format(v any) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Field extracts a string field from a raw JSON object. It returns false
// when raw is not an object or the field is missing or not a string.
func Field(raw json.RawMessage, name string) (string, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	v, ok := m[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}
