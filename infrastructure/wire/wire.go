// Package wire encodes protobuf messages field by field, without generated
// code. Both the badger records and the gRPC payloads are written with it.
package wire

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Encoder appends fields in proto3 style: zero values are not written.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Encoded() []byte {
	return e.buf
}

func (e *Encoder) String(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *Encoder) Bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

func (e *Encoder) Int(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

func (e *Encoder) Bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *Encoder) Double(num protowire.Number, v float64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.Fixed64Type)
	e.buf = protowire.AppendFixed64(e.buf, math.Float64bits(v))
}

// Time writes a nested google.protobuf.Timestamp.
func (e *Encoder) Time(num protowire.Number, t time.Time) error {
	if t.IsZero() {
		return nil
	}
	ts, err := proto.Marshal(timestamppb.New(t))
	if err != nil {
		return err
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, ts)
	return nil
}

// Message writes a nested message, even when it is empty, so repeated
// entries keep their position.
func (e *Encoder) Message(num protowire.Number, nested []byte) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, nested)
}

// Field is one decoded field. Only the member matching its wire type is set.
type Field struct {
	Num    protowire.Number
	varint uint64
	fixed  uint64
	raw    []byte
}

func (f Field) String() string  { return string(f.raw) }
func (f Field) Bytes() []byte   { return bytes.Clone(f.raw) }
func (f Field) Int() int64      { return int64(f.varint) }
func (f Field) Bool() bool      { return protowire.DecodeBool(f.varint) }
func (f Field) Double() float64 { return math.Float64frombits(f.fixed) }

// Raw returns the undecoded payload of a nested message.
func (f Field) Raw() []byte { return f.raw }

func (f Field) Time() (time.Time, error) {
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(f.raw, &ts); err != nil {
		return time.Time{}, err
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}

// Decode walks the fields of one message. Unknown fields are skipped so
// older binaries can read messages written by newer ones.
func Decode(b []byte, fn func(f Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("malformed message: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := Field{Num: num}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.fixed, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.raw, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("malformed field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
