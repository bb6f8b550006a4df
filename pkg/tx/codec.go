package tx

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The network serializes transactions as protocol buffers. Signing hashes
// are taken over those bytes, so the encoder below must reproduce the
// canonical protobuf output exactly:
//   - fields in ascending field-number order
//   - proto3 scalar defaults (0, false, empty) omitted
//   - repeated fields emitted element by element, in order
//
// Each message lists its fields once; the same table drives encoding and
// decoding.
//
// Transaction, raw data, contract and Any messages also carry the fields
// they do not declare, and whether they were received as a present but empty
// nested message, so that re-encoding a decoded transaction reproduces the
// received bytes and the signing hash does not change.

type fieldKind uint8

const (
	kindBytes         fieldKind = iota // *[]byte
	kindString                         // *string
	kindInt64                          // *int64
	kindInt32                          // *int32
	kindBool                           // *bool
	kindRepeatedBytes                  // *[][]byte
	kindMessage                        // message
	kindMessages                       // messageList
)

type field struct {
	num  protowire.Number
	kind fieldKind
	ptr  interface{}
}

// message is implemented by every wire type. fields must return pointers
// into the receiver, ordered by field number.
type message interface {
	fields() []field
}

// messageList adapts a slice of nested messages for the codec.
type messageList interface {
	size() int
	at(i int) message
	grow() message
}

type messageSlice[T any, P interface {
	*T
	message
}] struct {
	s *[]T
}

func (l messageSlice[T, P]) size() int { return len(*l.s) }

func (l messageSlice[T, P]) at(i int) message { return P(&(*l.s)[i]) }

func (l messageSlice[T, P]) grow() message {
	var zero T
	*l.s = append(*l.s, zero)
	return P(&(*l.s)[len(*l.s)-1])
}

func repeated[T any, P interface {
	*T
	message
}](s *[]T) messageList {
	return messageSlice[T, P]{s: s}
}

var errWireType = errors.New("unexpected wire type")

// wireState is embedded in messages that must survive a decode/encode round
// trip unchanged.
type wireState struct {
	unknown []byte // Undeclared fields, in the order received
	empty   bool   // Received as a present, zero-length nested message
}

func (w *wireState) state() *wireState { return w }

func (w wireState) clone() wireState {
	return wireState{unknown: cloneBytes(w.unknown), empty: w.empty}
}

// stateful is implemented by messages embedding wireState.
type stateful interface {
	state() *wireState
}

// marshalMessage appends the canonical encoding of m to b.
func marshalMessage(b []byte, m message) []byte {
	for _, f := range m.fields() {
		switch f.kind {
		case kindBytes:
			if v := *f.ptr.(*[]byte); len(v) > 0 {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendBytes(b, v)
			}

		case kindString:
			if v := *f.ptr.(*string); v != "" {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendString(b, v)
			}

		case kindInt64:
			if v := *f.ptr.(*int64); v != 0 {
				b = protowire.AppendTag(b, f.num, protowire.VarintType)
				b = protowire.AppendVarint(b, uint64(v))
			}

		case kindInt32:
			// Negative int32 values are sign-extended to 10 bytes.
			if v := *f.ptr.(*int32); v != 0 {
				b = protowire.AppendTag(b, f.num, protowire.VarintType)
				b = protowire.AppendVarint(b, uint64(int64(v)))
			}

		case kindBool:
			if *f.ptr.(*bool) {
				b = protowire.AppendTag(b, f.num, protowire.VarintType)
				b = protowire.AppendVarint(b, 1)
			}

		case kindRepeatedBytes:
			for _, v := range *f.ptr.(*[][]byte) {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendBytes(b, v)
			}

		case kindMessage:
			nested := marshalMessage(nil, f.ptr.(message))
			if len(nested) > 0 || receivedEmpty(f.ptr) {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendBytes(b, nested)
			}

		case kindMessages:
			list := f.ptr.(messageList)
			for i := 0; i < list.size(); i++ {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendBytes(b, marshalMessage(nil, list.at(i)))
			}
		}
	}

	if s, ok := m.(stateful); ok {
		b = append(b, s.state().unknown...)
	}
	return b
}

func receivedEmpty(m interface{}) bool {
	s, ok := m.(stateful)
	return ok && s.state().empty
}

// unmarshalMessage decodes b into m. Fields m does not declare are kept in
// its wireState when it has one and skipped otherwise.
func unmarshalMessage(b []byte, m message) error {
	table := m.fields()
	byNum := make(map[protowire.Number]field, len(table))
	for _, f := range table {
		byNum[f.num] = f
	}

	for len(b) > 0 {
		start := b
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f, ok := byNum[num]
		if !ok {
			vn := protowire.ConsumeFieldValue(num, typ, b)
			if vn < 0 {
				return protowire.ParseError(vn)
			}
			b = b[vn:]

			if s, ok := m.(stateful); ok {
				st := s.state()
				st.unknown = append(st.unknown, start[:n+vn]...)
			}
			continue
		}

		n, err := consumeField(f, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		b = b[n:]
	}
	return nil
}

func consumeField(f field, typ protowire.Type, b []byte) (int, error) {
	switch f.kind {
	case kindBytes, kindString, kindRepeatedBytes, kindMessage, kindMessages:
		if typ != protowire.BytesType {
			return 0, errWireType
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}

		switch f.kind {
		case kindBytes:
			*f.ptr.(*[]byte) = append([]byte(nil), v...)
		case kindString:
			*f.ptr.(*string) = string(v)
		case kindRepeatedBytes:
			p := f.ptr.(*[][]byte)
			*p = append(*p, append([]byte{}, v...))
		case kindMessage:
			if err := unmarshalMessage(v, f.ptr.(message)); err != nil {
				return 0, err
			}
			if s, ok := f.ptr.(stateful); ok && len(v) == 0 {
				s.state().empty = true
			}
		case kindMessages:
			if err := unmarshalMessage(v, f.ptr.(messageList).grow()); err != nil {
				return 0, err
			}
		}
		return n, nil

	default:
		if typ != protowire.VarintType {
			return 0, errWireType
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}

		switch f.kind {
		case kindInt64:
			*f.ptr.(*int64) = int64(v)
		case kindInt32:
			*f.ptr.(*int32) = int32(v)
		case kindBool:
			*f.ptr.(*bool) = v != 0
		}
		return n, nil
	}
}
