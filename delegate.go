package vecmap

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tidwall/gjson"
)

// Delegate decodes and encodes maps through caller-supplied strategies for
// keys and values, for example to borrow strings from the input instead of
// copying them:
//
//	d := Delegate[Str, Str, Inline4]{Keys: BorrowStr{}, Values: BorrowStr{}}
//	m, err := d.Decode(`{"owo": "uwu", "one": "two"}`)
//
// Decoding follows the same rules as Map.UnmarshalJSON: entries may be
// unordered and may repeat keys, and one entry per key is kept.
type Delegate[K, V any, N Inline] struct {
	Keys   Strategy[K]
	Values Strategy[V]
	// Order orders decoded keys; nil means DefaultOrder.
	Order func(a, b K) int
}

func (d Delegate[K, V, N]) order() (func(a, b K) int, error) {
	if d.Keys == nil || d.Values == nil {
		return nil, errors.New("vecmap: Delegate needs both Keys and Values strategies")
	}
	if d.Order != nil {
		return d.Order, nil
	}
	return DefaultOrder[K]()
}

// Decode decodes a JSON object. Strategies that borrow share memory with
// data.
func (d Delegate[K, V, N]) Decode(data string) (*Map[K, V, N], error) {
	order, err := d.order()
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, describeResult(root))
	}
	b := newBuilder[K, V, N](0, order)
	root.ForEach(func(key, value gjson.Result) bool {
		var k K
		var v V
		k, err = d.Keys.DecodeJSON(key)
		if err != nil {
			err = fmt.Errorf("decode key %q: %w", key.Str, err)
			return false
		}
		v, err = d.Values.DecodeJSON(value)
		if err != nil {
			err = fmt.Errorf("decode value for %q: %w", key.Str, err)
			return false
		}
		b.add(k, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return b.finish(), nil
}

// DecodeBytes is Decode without copying data. Strategies that borrow alias
// data, so it must not be modified while the map is in use.
func (d Delegate[K, V, N]) DecodeBytes(data []byte) (*Map[K, V, N], error) {
	if len(data) == 0 {
		return d.Decode("")
	}
	return d.Decode(unsafe.String(&data[0], len(data)))
}

// Encode encodes m as a JSON object with entries in key order.
func (d Delegate[K, V, N]) Encode(m *Map[K, V, N]) ([]byte, error) {
	if _, err := d.order(); err != nil {
		return nil, err
	}
	buf := []byte{'{'}
	for i, e := range m.entries.Slice() {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := d.Keys.EncodeJSON(e.Key)
		if err != nil {
			return nil, fmt.Errorf("encode key %v: %w", e.Key, err)
		}
		if len(name) == 0 || name[0] != '"' {
			return nil, fmt.Errorf("%w: key %v encodes as %s", ErrUnsupportedKey, e.Key, name)
		}
		value, err := d.Values.EncodeJSON(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode value for %v: %w", e.Key, err)
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

func describeResult(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.Type == gjson.Null:
		return "null"
	}
	return r.Type.String()
}
