// Package protocodec provides a vecmap value strategy for protobuf messages,
// carried on the wire in their canonical JSON mapping.
package protocodec

import (
	"fmt"

	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Message decodes each value into a fresh message of type M with protojson.
//
//	d := vecmap.Delegate[string, *structpb.Struct, vecmap.Inline4]{
//		Keys:   vecmap.Same[string]{},
//		Values: protocodec.Message[*structpb.Struct]{},
//	}
type Message[M proto.Message] struct {
	// New allocates the message to decode into; nil uses M's registered type.
	New       func() M
	Marshal   protojson.MarshalOptions
	Unmarshal protojson.UnmarshalOptions
}

func (c Message[M]) newMessage() M {
	if c.New != nil {
		return c.New()
	}
	var zero M
	return zero.ProtoReflect().Type().New().Interface().(M)
}

func (c Message[M]) DecodeJSON(raw gjson.Result) (M, error) {
	m := c.newMessage()
	if err := c.Unmarshal.Unmarshal([]byte(raw.Raw), m); err != nil {
		return m, fmt.Errorf("protojson: %w", err)
	}
	return m, nil
}

func (c Message[M]) EncodeJSON(m M) ([]byte, error) {
	b, err := c.Marshal.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protojson: %w", err)
	}
	return b, nil
}
