package vecmap

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// BinaryOptions selects how keys and values are encoded inside the binary
// format. Zero fields default to encoding/json.
type BinaryOptions struct {
	Marshal   func(interface{}) ([]byte, error)
	Unmarshal func([]byte, interface{}) error
}

var (
	defaultMarshal   = json.Marshal
	defaultUnmarshal = json.Unmarshal
)

func (o *BinaryOptions) codecs() (func(interface{}) ([]byte, error), func([]byte, interface{}) error) {
	marshal, unmarshal := defaultMarshal, defaultUnmarshal
	if o != nil {
		if o.Marshal != nil {
			marshal = o.Marshal
		}
		if o.Unmarshal != nil {
			unmarshal = o.Unmarshal
		}
	}
	return marshal, unmarshal
}

func appendLength(buf []byte, n int) []byte {
	var tmpbuf [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(tmpbuf[:], uint64(n))
	return append(buf, tmpbuf[:l]...)
}

func appendBody(buf []byte, v interface{}, marshal func(interface{}) ([]byte, error)) ([]byte, error) {
	body, err := marshal(v)
	if err != nil {
		return nil, err
	}
	buf = appendLength(buf, len(body))
	return append(buf, body...), nil
}

func decodeLength(buf []byte, n *int) ([]byte, error) {
	k, l := binary.Uvarint(buf)
	if l <= 0 || k > uint64(len(buf)) {
		return nil, errors.New("bad length")
	}
	*n = int(k)
	return buf[l:], nil
}

func decodeBytes(buf []byte, body *[]byte) ([]byte, error) {
	var n int
	buf, err := decodeLength(buf, &n)
	if err != nil {
		return nil, err
	}
	if len(buf) < n {
		return nil, errors.New("bad body length")
	}
	*body = buf[:n]
	return buf[n:], nil
}

// MarshalBinary encodes the map as an entry count followed by
// length-prefixed, JSON-encoded keys and values, in key order.
func (m *Map[K, V, N]) MarshalBinary() ([]byte, error) {
	return m.EncodeBinary(nil)
}

// EncodeBinary is MarshalBinary with the given body codecs.
func (m *Map[K, V, N]) EncodeBinary(opts *BinaryOptions) ([]byte, error) {
	marshal, _ := opts.codecs()
	buf := appendLength(nil, m.Len())
	var err error
	for i, e := range m.entries.Slice() {
		buf, err = appendBody(buf, e.Key, marshal)
		if err != nil {
			return nil, fmt.Errorf("marshal key[%d]: %w", i, err)
		}
		buf, err = appendBody(buf, e.Value, marshal)
		if err != nil {
			return nil, fmt.Errorf("marshal value[%d]: %w", i, err)
		}
	}
	return buf, nil
}

// UnmarshalBinary replaces the map's contents with entries decoded from
// MarshalBinary's format. Entries need not be ordered or unique. On error the
// map is not modified.
func (m *Map[K, V, N]) UnmarshalBinary(data []byte) error {
	return m.DecodeBinary(data, nil)
}

// DecodeBinary is UnmarshalBinary with the given body codecs.
func (m *Map[K, V, N]) DecodeBinary(data []byte, opts *BinaryOptions) error {
	order, err := m.orderForDecode()
	if err != nil {
		return err
	}
	_, unmarshal := opts.codecs()
	var total int
	buf, err := decodeLength(data, &total)
	if err != nil {
		return fmt.Errorf("entry count: %w", err)
	}
	// every entry takes at least two length bytes
	if total > len(buf)/2 {
		return errors.New("bad entry count")
	}
	b := newBuilder[K, V, N](total, order)
	for i := 0; i < total; i++ {
		var body []byte
		buf, err = decodeBytes(buf, &body)
		if err != nil {
			return fmt.Errorf("key[%d]: %w", i, err)
		}
		var k K
		if err = unmarshal(body, &k); err != nil {
			return fmt.Errorf("unmarshal key[%d]: %w", i, err)
		}
		buf, err = decodeBytes(buf, &body)
		if err != nil {
			return fmt.Errorf("value[%d]: %w", i, err)
		}
		var v V
		if err = unmarshal(body, &v); err != nil {
			return fmt.Errorf("unmarshal value[%d]: %w", i, err)
		}
		b.add(k, v)
	}
	if len(buf) != 0 {
		return fmt.Errorf("%d trailing bytes", len(buf))
	}
	m.replace(b.finish())
	return nil
}
