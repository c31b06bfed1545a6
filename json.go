package vecmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// MarshalJSON encodes the map as a JSON object with entries in key order.
func (m *Map[K, V, N]) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+16*m.Len())
	buf = append(buf, '{')
	for i, e := range m.entries.Slice() {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := marshalKey(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON replaces the map's contents with the entries of a JSON
// object. Entries may arrive in any order and may repeat a key, in which case
// one of them is kept. JSON null leaves the map unchanged. On error the map
// is not modified.
func (m *Map[K, V, N]) UnmarshalJSON(data []byte) error {
	order, err := m.orderForDecode()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{
			Value:  describeToken(tok),
			Type:   reflect.TypeOf(m).Elem(),
			Offset: dec.InputOffset(),
		}
	}
	b := newBuilder[K, V, N](0, order)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("vecmap: expected object key, got %v", tok)
		}
		k, err := unmarshalKey[K](name)
		if err != nil {
			return err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		b.add(k, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("vecmap: invalid data after top-level value at offset %d", dec.InputOffset())
	}
	m.replace(b.finish())
	return nil
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' {
			return "array"
		}
		return "object"
	case bool:
		return "bool"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	}
	return fmt.Sprintf("%T", tok)
}
