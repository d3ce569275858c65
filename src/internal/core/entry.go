// FILE: sensormerge/src/internal/core/entry.go
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Field is a single key/value pair of an Entry; the value is kept as raw JSON
type Field struct {
	Key   string
	Value json.RawMessage
}

// Entry represents a single sensor reading flowing through the merge.
// Field order of the source document is preserved on output.
type Entry struct {
	fields []Field
}

// NewEntry builds an entry from fields in the given order
func NewEntry(fields ...Field) Entry {
	e := Entry{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		e.Set(f.Key, f.Value)
	}
	return e
}

// Get returns the raw value stored under key
func (e Entry) Get(key string) (json.RawMessage, bool) {
	if i := e.index(key); i >= 0 {
		return e.fields[i].Value, true
	}
	return nil, false
}

// Has reports whether the entry carries key
func (e Entry) Has(key string) bool {
	return e.index(key) >= 0
}

// Set replaces the value of an existing key in place, or appends a new field
func (e *Entry) Set(key string, value json.RawMessage) {
	if i := e.index(key); i >= 0 {
		e.fields[i].Value = value
		return
	}
	e.fields = append(e.fields, Field{Key: key, Value: value})
}

// Keys returns field names in document order
func (e Entry) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.Key
	}
	return keys
}

func (e Entry) Len() int {
	return len(e.fields)
}

// Clone returns a deep copy that shares no memory with e
func (e Entry) Clone() Entry {
	c := Entry{fields: make([]Field, len(e.fields))}
	for i, f := range e.fields {
		c.fields[i] = Field{Key: f.Key, Value: append(json.RawMessage(nil), f.Value...)}
	}
	return c
}

// Sensor returns the sensor name of the entry
func (e Entry) Sensor() (string, error) {
	raw, ok := e.Get(FieldSensor)
	if !ok {
		return "", ErrMissingSensor
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("%w: got %s", ErrInvalidSensor, raw)
	}
	if name == "" {
		return "", ErrInvalidSensor
	}
	return name, nil
}

// SensorKey returns the first code point of the sensor name, the secondary sort key
func (e Entry) SensorKey() (rune, error) {
	name, err := e.Sensor()
	if err != nil {
		return 0, err
	}
	r, _ := utf8.DecodeRuneInString(name)
	return r, nil
}

// Timestamp classifies the timestamp field of the entry
func (e Entry) Timestamp() Timestamp {
	raw, ok := e.Get(FieldTimestamp)
	if !ok {
		return Timestamp{Kind: TimestampAbsent}
	}
	return ParseTimestampValue(raw)
}

// MarshalJSON writes the fields in document order
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order.
// A repeated key keeps its first position and takes the last value.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	e.fields = e.fields[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in object", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		e.Set(key, compact.Bytes())
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (e Entry) String() string {
	b, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid entry: %v>", err)
	}
	return string(b)
}

func (e Entry) index(key string) int {
	for i := range e.fields {
		if e.fields[i].Key == key {
			return i
		}
	}
	return -1
}
