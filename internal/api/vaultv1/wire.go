package vaultv1

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every request and response type of the service.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.MarshalWire())
}

// field is one decoded tag/value pair handed to a message's field switch.
type field struct {
	num protowire.Number
	typ protowire.Type
	raw []byte // remaining input starting at the value
	n   int    // bytes consumed by the handler; 0 means skip as unknown
}

func (f *field) bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("vaultv1: field %d: wire type %d, want bytes", f.num, f.typ)
	}
	v, n := protowire.ConsumeBytes(f.raw)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	f.n = n
	return append([]byte(nil), v...), nil
}

func (f *field) string() (string, error) {
	v, err := f.bytes()
	return string(v), err
}

func (f *field) varint() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("vaultv1: field %d: wire type %d, want varint", f.num, f.typ)
	}
	v, n := protowire.ConsumeVarint(f.raw)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	f.n = n
	return v, nil
}

func (f *field) message(m Message) error {
	v, err := f.bytes()
	if err != nil {
		return err
	}
	return m.UnmarshalWire(v)
}

// walk feeds each field of b to fn. Fields fn leaves untouched are skipped,
// which keeps older readers compatible with newer writers.
func walk(b []byte, fn func(f *field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ, raw: b}
		if err := fn(&f); err != nil {
			return err
		}
		if f.n == 0 {
			f.n = protowire.ConsumeFieldValue(num, typ, b)
			if f.n < 0 {
				return protowire.ParseError(f.n)
			}
		}
		b = b[f.n:]
	}
	return nil
}
