package integeriser

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tables serialize as their dense value sequence alone, from a value or a
// pointer. Decoding replays the sequence to rebuild the reverse index and only
// replaces the receiver once the whole sequence has been accepted. A JSON null
// leaves the receiver as it is.

var (
	_ json.Marshaler   = Hashed[string]{}
	_ gob.GobEncoder   = Hashed[string]{}
	_ yaml.Marshaler   = Hashed[string]{}
	_ json.Unmarshaler = (*Hashed[string])(nil)
	_ gob.GobDecoder   = (*Hashed[string])(nil)
	_ yaml.Unmarshaler = (*Hashed[string])(nil)

	_ json.Marshaler   = Ordered[string]{}
	_ gob.GobEncoder   = Ordered[string]{}
	_ yaml.Marshaler   = Ordered[string]{}
	_ json.Unmarshaler = (*Ordered[string])(nil)
	_ gob.GobDecoder   = (*Ordered[string])(nil)
	_ yaml.Unmarshaler = (*Ordered[string])(nil)
)

// sequence returns values as a non-nil slice so empty tables encode as an
// empty list rather than null.
func sequence[T any](values []T) []T {
	if values == nil {
		return []T{}
	}

	return values
}

func encodeGob[T any](values []T) ([]byte, error) {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(sequence(values))
	if err != nil {
		return nil, fmt.Errorf("gob encode sequence: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeGob[T any](data []byte) ([]T, error) {
	var values []T

	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&values)
	if err != nil {
		return nil, fmt.Errorf("gob decode sequence: %w", err)
	}

	return values, nil
}

var jsonNull = []byte("null")

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), jsonNull)
}

func decodeJSON[T any](data []byte) ([]T, error) {
	var values []T

	err := json.Unmarshal(data, &values)
	if err != nil {
		return nil, fmt.Errorf("json decode sequence: %w", err)
	}

	return values, nil
}

func decodeYAML[T any](node *yaml.Node) ([]T, error) {
	var values []T

	err := node.Decode(&values)
	if err != nil {
		return nil, fmt.Errorf("yaml decode sequence: %w", err)
	}

	return values, nil
}

// MarshalJSON encodes the table as a JSON array of values in code order.
func (table Hashed[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(sequence(table.values))
}

// UnmarshalJSON rebuilds the table from a JSON array of values. null is a no-op.
func (table *Hashed[T]) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}

	values, err := decodeJSON[T](data)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

// GobEncode encodes the table as a gob value sequence.
func (table Hashed[T]) GobEncode() ([]byte, error) {
	return encodeGob(table.values)
}

// GobDecode rebuilds the table from a gob value sequence.
func (table *Hashed[T]) GobDecode(data []byte) error {
	values, err := decodeGob[T](data)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

// MarshalYAML encodes the table as a YAML sequence.
func (table Hashed[T]) MarshalYAML() (any, error) {
	return sequence(table.values), nil
}

// UnmarshalYAML rebuilds the table from a YAML sequence.
func (table *Hashed[T]) UnmarshalYAML(node *yaml.Node) error {
	values, err := decodeYAML[T](node)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

func (table *Hashed[T]) rebuild(values []T) error {
	rebuilt, err := NewHashedFrom(values)
	if err != nil {
		return err
	}

	table.replace(rebuilt)

	return nil
}

// MarshalJSON encodes the table as a JSON array of values in code order.
func (table Ordered[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(sequence(table.values))
}

// UnmarshalJSON rebuilds the table from a JSON array of values. null is a
// no-op; otherwise the receiver must have been constructed with a comparator.
func (table *Ordered[T]) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}

	if table.compare == nil {
		return fmt.Errorf("json decode sequence: %w", ErrNoComparator)
	}

	values, err := decodeJSON[T](data)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

// GobEncode encodes the table as a gob value sequence.
func (table Ordered[T]) GobEncode() ([]byte, error) {
	return encodeGob(table.values)
}

// GobDecode rebuilds the table from a gob value sequence. The receiver must
// have been constructed with a comparator.
func (table *Ordered[T]) GobDecode(data []byte) error {
	if table.compare == nil {
		return fmt.Errorf("gob decode sequence: %w", ErrNoComparator)
	}

	values, err := decodeGob[T](data)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

// MarshalYAML encodes the table as a YAML sequence.
func (table Ordered[T]) MarshalYAML() (any, error) {
	return sequence(table.values), nil
}

// UnmarshalYAML rebuilds the table from a YAML sequence. The receiver must
// have been constructed with a comparator.
func (table *Ordered[T]) UnmarshalYAML(node *yaml.Node) error {
	if table.compare == nil {
		return fmt.Errorf("yaml decode sequence: %w", ErrNoComparator)
	}

	values, err := decodeYAML[T](node)
	if err != nil {
		return err
	}

	return table.rebuild(values)
}

func (table *Ordered[T]) rebuild(values []T) error {
	rebuilt, err := NewOrderedFuncFrom(table.compare, values)
	if err != nil {
		return err
	}

	table.replace(rebuilt)

	return nil
}
