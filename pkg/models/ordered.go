package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// OrderedEntry is one key/value pair of a JSON object.
type OrderedEntry[T any] struct {
	Key   string
	Value T
}

// OrderedMap decodes a JSON object keeping its members in document order.
type OrderedMap[T any] []OrderedEntry[T]

// UnmarshalJSON reads the object member by member. A null object decodes to an empty map.
func (m *OrderedMap[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil

		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return err
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", token)
	}

	entries := make(OrderedMap[T], 0)

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}

		key, ok := keyToken.(string)
		if !ok {
			return errors.New("object key is not a string")
		}

		var value T
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}

		entries = append(entries, OrderedEntry[T]{Key: key, Value: value})
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}

	*m = entries

	return nil
}

// MarshalJSON writes the members back in their original order.
func (m OrderedMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
