// Package rpc declares the tactical-link gRPC contract: request and response
// types, the service descriptor and its client. Payloads are protobuf
// encoded field by field, without generated code.
package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// CodecName overrides the default gRPC codec.
const CodecName = "proto"

// WireMessage is implemented by every type of this package.
type WireMessage interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire(b []byte) error
}

type protoCodec struct{}

func init() {
	encoding.RegisterCodec(protoCodec{})
}

// Marshal falls back on the protobuf runtime for generated messages.
func (protoCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case WireMessage:
		data, err := m.MarshalWire()
		if err != nil {
			return nil, fmt.Errorf("marshal %T: %w", v, err)
		}
		return data, nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("marshal %T: not a protobuf message", v)
	}
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case WireMessage:
		if err := m.UnmarshalWire(data); err != nil {
			return fmt.Errorf("unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("unmarshal %T: not a protobuf message", v)
	}
}

func (protoCodec) Name() string {
	return CodecName
}
