// Package song provides the key/value records found in MPD song and playlist listings.
package song

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Separator splits a response line into key and value.
const Separator = ": "

// ErrMissingField is the mark carried by errors for absent required keys.
var ErrMissingField = errors.New("missing required field")

// Field is one "key: value" line. Keys may repeat within a response.
type Field struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// String returns the field in wire form.
func (f Field) String() string {
	return f.Key + Separator + f.Value
}

// ParseField splits a line on the first separator.
// It returns false for lines that carry no separator.
func ParseField(line string) (Field, bool) {
	key, value, ok := strings.Cut(line, Separator)
	if !ok || key == "" {
		return Field{}, false
	}
	return Field{Key: key, Value: value}, true
}

// Fields is an ordered list of fields from one response.
type Fields []Field

// Get returns the value of the first field with the given key.
func (fs Fields) Get(key string) (string, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// All returns the values of every field with the given key, in order.
func (fs Fields) All(key string) []string {
	var values []string
	for _, f := range fs {
		if f.Key == key {
			values = append(values, f.Value)
		}
	}
	return values
}

// Require checks that every key is present at least once.
func (fs Fields) Require(keys ...string) error {
	for _, key := range keys {
		if _, ok := fs.Get(key); !ok {
			return &MissingFieldError{Key: key}
		}
	}
	return nil
}

// Map returns the first value of each key.
func (fs Fields) Map() map[string]any {
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		if _, ok := m[f.Key]; !ok {
			m[f.Key] = f.Value
		}
	}
	return m
}

// Group splits fields into records. A record starts at every occurrence of leadingKey;
// fields before the first leading key are dropped.
func Group(fs Fields, leadingKey string) []Fields {
	var groups []Fields
	for _, f := range fs {
		if f.Key == leadingKey {
			groups = append(groups, Fields{f})
			continue
		}
		if len(groups) == 0 {
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], f)
	}
	return groups
}

// MissingFieldError reports a key the caller required but the server did not send.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Key
}

// Is lets errors.Is match ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
