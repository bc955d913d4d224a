package netmsg

import "fmt"

// PushValue pushes v when its type is only known at runtime. Types outside
// the builtin codecs and Sendable return ErrUnsupportedType. Prefer the
// generic Push/PushWith functions, which reject such types at compile time.
func (msg *Message[T]) PushValue(v any) error {
	b := &msg.body
	switch x := v.(type) {
	case int8:
		pushFixed(b, x)
	case uint8:
		pushFixed(b, x)
	case int16:
		pushFixed(b, x)
	case uint16:
		pushFixed(b, x)
	case int32:
		pushFixed(b, x)
	case uint32:
		pushFixed(b, x)
	case int64:
		pushFixed(b, x)
	case uint64:
		pushFixed(b, x)
	case float32:
		pushFixed(b, x)
	case float64:
		pushFixed(b, x)
	case bool:
		b.PutBool(x)
	case string:
		b.PutString(x)
	case []byte:
		b.PutBytes(x)
	case []int8:
		Slice(FixedCodec[int8]()).Encode(b, x)
	case []int16:
		Slice(FixedCodec[int16]()).Encode(b, x)
	case []uint16:
		Slice(FixedCodec[uint16]()).Encode(b, x)
	case []int32:
		Slice(FixedCodec[int32]()).Encode(b, x)
	case []uint32:
		Slice(FixedCodec[uint32]()).Encode(b, x)
	case []int64:
		Slice(FixedCodec[int64]()).Encode(b, x)
	case []uint64:
		Slice(FixedCodec[uint64]()).Encode(b, x)
	case []float32:
		Slice(FixedCodec[float32]()).Encode(b, x)
	case []float64:
		Slice(FixedCodec[float64]()).Encode(b, x)
	case []string:
		Slice(String).Encode(b, x)
	case Sendable:
		x.PushTo(b)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	msg.sync()
	return nil
}

// PopValue pops into the value ptr points at, using the same type table as PushValue.
func (msg *Message[T]) PopValue(ptr any) error {
	b := &msg.body
	mark := b.Len()
	var err error
	switch p := ptr.(type) {
	case *int8:
		*p, err = popInto[int8](b, *p)
	case *uint8:
		*p, err = popInto[uint8](b, *p)
	case *int16:
		*p, err = popInto[int16](b, *p)
	case *uint16:
		*p, err = popInto[uint16](b, *p)
	case *int32:
		*p, err = popInto[int32](b, *p)
	case *uint32:
		*p, err = popInto[uint32](b, *p)
	case *int64:
		*p, err = popInto[int64](b, *p)
	case *uint64:
		*p, err = popInto[uint64](b, *p)
	case *float32:
		*p, err = popInto[float32](b, *p)
	case *float64:
		*p, err = popInto[float64](b, *p)
	case *bool:
		*p, err = decodeInto(b, Bool, *p)
	case *string:
		*p, err = decodeInto(b, String, *p)
	case *[]byte:
		*p, err = decodeInto(b, Bytes, *p)
	case *[]int8:
		*p, err = decodeInto(b, Slice(FixedCodec[int8]()), *p)
	case *[]int16:
		*p, err = decodeInto(b, Slice(FixedCodec[int16]()), *p)
	case *[]uint16:
		*p, err = decodeInto(b, Slice(FixedCodec[uint16]()), *p)
	case *[]int32:
		*p, err = decodeInto(b, Slice(FixedCodec[int32]()), *p)
	case *[]uint32:
		*p, err = decodeInto(b, Slice(FixedCodec[uint32]()), *p)
	case *[]int64:
		*p, err = decodeInto(b, Slice(FixedCodec[int64]()), *p)
	case *[]uint64:
		*p, err = decodeInto(b, Slice(FixedCodec[uint64]()), *p)
	case *[]float32:
		*p, err = decodeInto(b, Slice(FixedCodec[float32]()), *p)
	case *[]float64:
		*p, err = decodeInto(b, Slice(FixedCodec[float64]()), *p)
	case *[]string:
		*p, err = decodeInto(b, Slice(String), *p)
	case Sendable:
		if err = p.PopFrom(b); err != nil {
			b.rewind(mark)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, ptr)
	}
	msg.sync()
	return err
}

// popInto keeps old when the pop fails so the destination is not clobbered.
func popInto[V Fixed](b *Body, old V) (V, error) {
	v, err := popFixed[V](b)
	if err != nil {
		return old, err
	}
	return v, nil
}

func decodeInto[V any](b *Body, c Codec[V], old V) (V, error) {
	v, err := c.Decode(b)
	if err != nil {
		return old, err
	}
	return v, nil
}
